package tracker

import (
	"errors"
)

// multiTracker sends each report to a list of Trackers. multiTracker
// itself is a Tracker.
//
// Every registered Tracker receives every report, even if an earlier
// Tracker fails. The errors of all failing Trackers are joined.
type multiTracker struct {
	trackers []Tracker
}

// Register returns a Tracker that forwards each call to all of the
// argument Trackers, in order. Nil Trackers are ignored.
func Register(t ...Tracker) Tracker {
	trackers := make([]Tracker, 0, len(t))
	for _, tracker := range t {
		if tracker == nil {
			continue
		}

		// Flatten nested registrations
		if m, ok := tracker.(*multiTracker); ok {
			trackers = append(trackers, m.trackers...)
			continue
		}
		trackers = append(trackers, tracker)
	}
	return &multiTracker{trackers}
}

// Len returns the number of registered Trackers
func (m *multiTracker) Len() int {
	return len(m.trackers)
}

// Track calls Track on each registered Tracker
func (m *multiTracker) Track(r Report) error {
	var errs []error
	for _, t := range m.trackers {
		if err := t.Track(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save calls Save on each registered Tracker
func (m *multiTracker) Save() error {
	var errs []error
	for _, t := range m.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
