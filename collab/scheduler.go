package collab

import (
	"container/heap"
	"time"

	"citytrips/backend/model"
)

// Scheduler implements model.Scheduler as a logical-time, single-threaded
// priority queue over container/heap (stdlib): nothing in the retrieval
// pack implements logical-time discrete-event scheduling — the teacher's
// sim/runner.go drives its engine with real-time time.After sleeps behind
// goroutines and a sync.Mutex, which is the opposite of spec §5's
// single-threaded, no-suspension-points, no-locks model, so it was not
// adapted (see DESIGN.md). Commands scheduled for equal times run in
// insertion order, preserving spec §9's "equal departure" open-question
// decision.
type Scheduler struct {
	queue *commandQueue
	seq   int
}

func NewScheduler() *Scheduler {
	s := &Scheduler{queue: &commandQueue{}}
	heap.Init(s.queue)
	return s
}

// Schedule implements model.Scheduler.
func (s *Scheduler) Schedule(cmd model.Command) {
	heap.Push(s.queue, scheduledCommand{cmd: cmd, seq: s.seq})
	s.seq++
}

// Pop removes and returns the earliest-scheduled command, or false if the
// queue is empty. driver.Runner calls this in a loop to drive the
// manager; the Trip Manager itself never calls Pop.
func (s *Scheduler) Pop() (model.Command, bool) {
	if s.queue.Len() == 0 {
		return model.Command{}, false
	}
	sc := heap.Pop(s.queue).(scheduledCommand)
	return sc.cmd, true
}

func (s *Scheduler) Len() int { return s.queue.Len() }

// Peek reports the time of the next command without removing it.
func (s *Scheduler) Peek() (time.Time, bool) {
	if s.queue.Len() == 0 {
		return time.Time{}, false
	}
	return (*s.queue)[0].cmd.At, true
}

type scheduledCommand struct {
	cmd model.Command
	seq int
}

type commandQueue []scheduledCommand

func (q commandQueue) Len() int { return len(q) }

func (q commandQueue) Less(i, j int) bool {
	if q[i].cmd.At.Equal(q[j].cmd.At) {
		return q[i].seq < q[j].seq
	}
	return q[i].cmd.At.Before(q[j].cmd.At)
}

func (q commandQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *commandQueue) Push(x any) { *q = append(*q, x.(scheduledCommand)) }

func (q *commandQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
