package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	queue "github.com/okian/hacksphere/internal/adapters/mq/queue"
	worker "github.com/okian/hacksphere/internal/adapters/mq/worker"
	logging "github.com/okian/hacksphere/pkg/logger"
)

type mockQueue struct {
	jobs chan queue.Job
	once sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{jobs: make(chan queue.Job, 16)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Job { return mq.jobs }

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.jobs) })
	return nil
}

type recorder struct {
	mu     sync.Mutex
	seen   []string
	failOn map[string]error
	done   chan string
}

func newRecorder() *recorder {
	return &recorder{failOn: make(map[string]error), done: make(chan string, 64)}
}

func (r *recorder) Refresh(_ context.Context, job worker.Job) error {
	r.mu.Lock()
	r.seen = append(r.seen, job.EventID)
	err := r.failOn[job.EventID]
	r.mu.Unlock()
	r.done <- job.EventID
	return err
}

func (r *recorder) wait(n int) []string {
	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < n {
		select {
		case id := <-r.done:
			got = append(got, id)
		case <-timeout:
			return got
		}
	}
	return got
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		_ = logging.Init()
		q := newMockQueue()
		rec := newRecorder()
		w := worker.NewInMemoryWorker(q, rec, worker.WithName("test-worker"), worker.WithJobTimeout(time.Second))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("It refreshes every job it receives", func() {
			q.jobs <- queue.Job{EventID: "e1"}
			q.jobs <- queue.Job{EventID: "e2"}
			convey.So(rec.wait(2), convey.ShouldResemble, []string{"e1", "e2"})
		})

		convey.Convey("A failing refresh does not stop the loop", func() {
			rec.failOn["bad"] = errors.New("boom")
			q.jobs <- queue.Job{EventID: "bad"}
			q.jobs <- queue.Job{EventID: "good"}
			convey.So(rec.wait(2), convey.ShouldResemble, []string{"bad", "good"})
		})

		convey.Convey("Shutdown stops the loop", func() {
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})

		convey.Convey("Closing the queue ends the loop", func() {
			convey.So(q.Close(), convey.ShouldBeNil)
			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()
			convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over an in-memory queue", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(32))
		rec := newRecorder()
		rec.failOn["e3"] = errors.New("boom")
		pool := worker.NewPool(3, q, rec)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("Jobs are processed and counted", func() {
			for _, id := range []string{"e1", "e2", "e3", "e4"} {
				convey.So(q.Enqueue(ctx, queue.Job{EventID: id}), convey.ShouldBeNil)
			}
			convey.So(rec.wait(4), convey.ShouldHaveLength, 4)

			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)

			stats := pool.Stats()
			convey.So(stats.Workers, convey.ShouldEqual, 3)
			convey.So(stats.Processed, convey.ShouldEqual, 3)
			convey.So(stats.Failed, convey.ShouldEqual, 1)
			convey.So(stats.Active, convey.ShouldEqual, 0)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})

		convey.Convey("A function can serve as the refresher", func() {
			called := make(chan string, 1)
			fq := queue.NewInMemoryQueue()
			fnPool := worker.NewPool(1, fq, worker.RefresherFunc(func(_ context.Context, j worker.Job) error {
				called <- j.EventID
				return nil
			}))
			fnPool.Start(ctx)
			convey.So(fq.Enqueue(ctx, queue.Job{EventID: "x"}), convey.ShouldBeNil)
			select {
			case id := <-called:
				convey.So(id, convey.ShouldEqual, "x")
			case <-time.After(2 * time.Second):
				convey.So("refresher not called", convey.ShouldBeEmpty)
			}
			sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer scancel()
			convey.So(fnPool.Shutdown(sctx), convey.ShouldBeNil)
			convey.So(pool.Shutdown(sctx), convey.ShouldBeNil)
		})
	})
}
