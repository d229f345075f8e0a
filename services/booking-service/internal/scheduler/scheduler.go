package scheduler

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/coosmos/Hotel-Management-Backend/pkg/dates"
)

// Locker grants a named lease to exactly one replica.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLocker leases keys with SET NX.
type RedisLocker struct {
	rdb *redis.Client
}

func NewRedisLocker(rdb *redis.Client) *RedisLocker { return &RedisLocker{rdb: rdb} }

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// LocalLocker always grants the lease; for single-replica deployments.
type LocalLocker struct{}

func (LocalLocker) Acquire(context.Context, string, time.Duration) (bool, error) { return true, nil }

// Job is one named daily task run at Hour:00 in Location.
type Job struct {
	Name string
	Hour int
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job
	loc  *time.Location
	lock Locker
	log  *logrus.Entry
	now  func() time.Time
}

func New(loc *time.Location, lock Locker, log *logrus.Entry, jobs ...Job) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if lock == nil {
		lock = LocalLocker{}
	}
	return &Scheduler{jobs: jobs, loc: loc, lock: lock, log: log, now: time.Now}
}

// NextRun is the first hour:00 in loc strictly after now.
func NextRun(now time.Time, hour int, loc *time.Location) time.Time {
	n := now.In(loc)
	next := time.Date(n.Year(), n.Month(), n.Day(), hour, 0, 0, 0, loc)
	if !next.After(n) {
		next = time.Date(n.Year(), n.Month(), n.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}

// Start runs every job on its daily schedule until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	for _, j := range s.jobs {
		go s.loop(ctx, j)
	}
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	for {
		next := NextRun(s.now(), j.Hour, s.loc)
		s.log.WithFields(logrus.Fields{"job": j.Name, "next_run": next.Format(time.RFC3339)}).Info("job scheduled")
		t := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			s.RunOnce(ctx, j, next)
		}
	}
}

// RunOnce executes j for the run slot at, unless another replica already
// holds that slot's lease.
func (s *Scheduler) RunOnce(ctx context.Context, j Job, at time.Time) {
	log := s.log.WithField("job", j.Name)
	key := "scheduler:" + j.Name + ":" + dates.Format(dates.Of(at.In(s.loc)))
	ok, err := s.lock.Acquire(ctx, key, 23*time.Hour)
	if err != nil {
		log.WithError(err).Error("lease acquire failed, skipping run")
		return
	}
	if !ok {
		log.Info("run owned by another replica")
		return
	}
	start := time.Now()
	if err := j.Run(ctx); err != nil {
		log.WithError(err).Error("job failed")
		return
	}
	log.WithField("took", time.Since(start).String()).Info("job finished")
}
