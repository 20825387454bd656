package task

import "fmt"

// Kind is the category of a task.
type Kind string

const (
	KindItem        Kind = "item"
	KindAdvancement Kind = "advancement"
	KindStatistic   Kind = "statistic"
)

// Task is a goal that can appear on a bingo card.
type Task struct {
	Kind  Kind   `yaml:"kind" json:"kind"`
	Key   string `yaml:"key" json:"key"`
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count,omitempty" json:"count,omitempty"`
}

// ID identifies a task within a pool. Two tasks with the same ID are the
// same goal.
func (t Task) ID() string {
	return string(t.Kind) + ":" + t.Key
}

// DisplayName returns the name shown to players, including the required count.
func (t Task) DisplayName() string {
	name := t.Name
	if name == "" {
		name = t.Key
	}
	if t.Count > 1 {
		return fmt.Sprintf("%dx %s", t.Count, name)
	}
	return name
}

// Pool is an ordered set of task definitions.
type Pool []Task

// Without returns the tasks whose kind is not listed in excluded.
func (p Pool) Without(excluded ...Kind) Pool {
	if len(excluded) == 0 {
		return p
	}
	skip := make(map[Kind]bool, len(excluded))
	for _, k := range excluded {
		skip[k] = true
	}
	out := make(Pool, 0, len(p))
	for _, t := range p {
		if !skip[t.Kind] {
			out = append(out, t)
		}
	}
	return out
}
