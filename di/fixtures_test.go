package di_test

import (
	"fmt"
	"sync/atomic"

	"github.com/kbukum/typeioc/di"
)

type Logger struct {
	Prefix string
}

type Store interface {
	Name() string
}

type MemoryStore struct{}

func (*MemoryStore) Name() string { return "memory" }

type FileStore struct{}

func (*FileStore) Name() string { return "file" }

type Repo struct {
	Log   *Logger
	Store Store
}

func NewRepo(log *Logger, store Store) *Repo {
	return &Repo{Log: log, Store: store}
}

type Service struct {
	Log   *Logger         `inject:""`
	Repo  *Repo           `inject:""`
	Clock di.Lazy[*Clock] `inject:""`
	Note  string
}

var clockBuilds atomic.Int64

type Clock struct {
	ID int64
}

// NewClock refuses direct calls once Clock is a singleton.
func NewClock(c *di.Container) (*Clock, error) {
	if err := c.AssertConstructible(di.Key[Clock]()); err != nil {
		return nil, err
	}
	return &Clock{ID: clockBuilds.Add(1)}, nil
}

type Pair struct {
	First, Second string
}

func NewPair(first, second string) *Pair {
	return &Pair{First: first, Second: second}
}

type Broken struct{}

func NewBroken() (*Broken, error) {
	return nil, fmt.Errorf("disk unavailable")
}
