package datastore

import (
	"time"

	"github.com/insighthub/insighthub/models"
)

// nextID returns a millisecond timestamp id that is strictly greater than
// last. Ids stay close to creation time but never collide when several
// records are created within the same millisecond.
func nextID(now time.Time, last int64) int64 {
	id := now.UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id
}

func lastTaskID(tasks []models.Task) int64 {
	var last int64
	for _, t := range tasks {
		if t.ID > last {
			last = t.ID
		}
	}
	return last
}

func lastUserID(users []models.User) int64 {
	var last int64
	for _, u := range users {
		if u.ID > last {
			last = u.ID
		}
	}
	return last
}
