// Package analytics records in-memory usage counters for the pipeline.
// Numbers reset when the process restarts; nothing here persists.
package analytics

import (
	"sync"
	"time"
)

const dayFormat = "2006-01-02"

// Activity is one entry in the recent-activity ring.
type Activity struct {
	Timestamp time.Time
	UserTag   string
	Cases     int
}

// Metrics is a point-in-time dashboard snapshot.
type Metrics struct {
	TotalGenerations  int
	TotalCases        int
	GenerationsToday  int
	CasesToday        int
	Daily             []DayCount // last 7 days, oldest first
	EstimatedPositive int        // 70/30 split over total cases
	EstimatedNegative int
	RecentActivity    []Activity // newest first
	UserCounts        map[string]int
}

// DayCount is one day's generation count.
type DayCount struct {
	Day   string
	Count int
}

// Recorder accumulates usage counters behind one mutex.
type Recorder struct {
	mu         sync.Mutex
	ringSize   int
	totalGens  int
	totalCases int
	daily      map[string]int
	dailyCases map[string]int
	users      map[string]int
	recent     []Activity
	now        func() time.Time
}

// NewRecorder creates a recorder with the given recent-activity ring size.
func NewRecorder(ringSize int) *Recorder {
	if ringSize <= 0 {
		ringSize = 50
	}
	return &Recorder{
		ringSize:   ringSize,
		daily:      make(map[string]int),
		dailyCases: make(map[string]int),
		users:      make(map[string]int),
		now:        time.Now,
	}
}

// Track records one generation run. userTag may be empty.
func (r *Recorder) Track(cases int, userTag string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	day := now.Format(dayFormat)

	r.totalGens++
	r.totalCases += cases
	r.daily[day]++
	r.dailyCases[day] += cases
	if userTag != "" {
		r.users[userTag]++
	}

	r.recent = append([]Activity{{Timestamp: now, UserTag: userTag, Cases: cases}}, r.recent...)
	if len(r.recent) > r.ringSize {
		r.recent = r.recent[:r.ringSize]
	}
}

// Snapshot returns the current metrics, including a 7-day daily series.
func (r *Recorder) Snapshot() Metrics {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	today := now.Format(dayFormat)

	m := Metrics{
		TotalGenerations:  r.totalGens,
		TotalCases:        r.totalCases,
		GenerationsToday:  r.daily[today],
		CasesToday:        r.dailyCases[today],
		EstimatedPositive: r.totalCases * 70 / 100,
		UserCounts:        make(map[string]int, len(r.users)),
	}
	m.EstimatedNegative = r.totalCases - m.EstimatedPositive

	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayFormat)
		m.Daily = append(m.Daily, DayCount{Day: day, Count: r.daily[day]})
	}

	for user, count := range r.users {
		m.UserCounts[user] = count
	}
	m.RecentActivity = append(m.RecentActivity, r.recent...)

	return m
}
