// Package dummydb provides in-memory repositories for tests.
package dummydb

import (
	"sync"

	"github.com/trezcool/maoni/core/catalog"
	"github.com/trezcool/maoni/core/feedback"
	"github.com/trezcool/maoni/core/user"
)

type (
	DB struct {
		user     *userTable
		catalog  *catalogTable
		feedback *feedbackTable
	}

	userTable struct {
		sync.RWMutex
		pk    int
		table map[int]*user.User
	}

	catalogTable struct {
		sync.RWMutex
		coursePk  int
		teacherPk int
		courses   map[int]*catalog.Course
		teachers  map[int]*catalog.Teacher
	}

	feedbackTable struct {
		sync.RWMutex
		pk    int
		table map[int]*feedback.Feedback
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[int]*user.User)},
		catalog: &catalogTable{
			courses:  make(map[int]*catalog.Course),
			teachers: make(map[int]*catalog.Teacher),
		},
		feedback: &feedbackTable{table: make(map[int]*feedback.Feedback)},
	}
	return db, nil
}
