package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classtrack/internal/activity"
	"classtrack/internal/config"
	"classtrack/internal/holiday"
	"classtrack/internal/preferences"
	"classtrack/internal/queue"
	"classtrack/internal/roster"
	"classtrack/internal/settings"
	"classtrack/internal/store"
)

// Worker consumes reminder messages, records reminder activity, and runs
// the scheduler and retention loops.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "classtrack:reminders")
	}

	rosterRepo := roster.NewRepository(db.Client)
	audit := activity.NewLog(activity.NewRepository(db.Client))
	holidays := holiday.NewCalendar(holiday.NewRepository(db.Client))
	prefs := preferences.NewService(preferences.NewRepository(db.Client))
	settingsStore := settings.NewStore(settings.NewRepository(db.Client))

	go runScheduler(ctx, cfg, q, rosterRepo, holidays)
	go runRetention(ctx, cfg, audit, settingsStore)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for reminders...")
	for r := range messages {
		pref, err := prefs.Get(ctx, r.InstructorID)
		if err != nil {
			log.Printf("preferences load failed for %s: %v", r.InstructorID, err)
		} else if !pref.ShouldNotify(preferences.KindSessionReminder) {
			log.Printf("reminders disabled for %s, skipping session %s", r.InstructorID, r.SessionID)
			continue
		}

		audit.Record(ctx, activity.Entry{
			UserID:       r.InstructorID,
			UserType:     activity.UserInstructor,
			ActivityType: activity.TypeSessionReminder,
			Description:  fmt.Sprintf("session %s (%s) starts at %s", r.SessionID, r.ClassName, r.StartTime),
		})
		log.Printf("reminder recorded for session %s", r.SessionID)
	}

	log.Println("worker stopped")
}

// runScheduler publishes reminders for sessions starting within the lead
// window. Holiday dates are skipped.
func runScheduler(ctx context.Context, cfg config.App, q queue.Queue, rosterRepo *roster.Repository, holidays *holiday.Calendar) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	seen := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			now = now.UTC()
			if h, err := holidays.IsHoliday(ctx, now); err != nil {
				log.Printf("holiday check failed: %v", err)
			} else if h != nil {
				continue
			}

			sessions, err := rosterRepo.UpcomingSessions(ctx, now, cfg.ReminderLead)
			if err != nil {
				log.Printf("upcoming sessions query failed: %v", err)
				continue
			}

			for _, s := range sessions {
				if _, ok := seen[s.ID]; ok {
					continue
				}
				err := q.Publish(ctx, queue.Reminder{
					SessionID:    s.ID,
					InstructorID: s.CreatedBy,
					ClassName:    s.ClassName,
					Date:         s.Date,
					StartTime:    s.StartTime,
				})
				if err != nil {
					log.Printf("reminder publish failed for session %s: %v", s.ID, err)
					continue
				}
				seen[s.ID] = now
			}

			// Drop dedup entries older than a day.
			for id, t := range seen {
				if now.Sub(t) > 24*time.Hour {
					delete(seen, id)
				}
			}
		}
	}
}

// runRetention periodically prunes old activity entries using the
// configured retention, overridable through settings.
func runRetention(ctx context.Context, cfg config.App, audit *activity.Log, settingsStore *settings.Store) {
	ticker := time.NewTicker(cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			days := settingsStore.GetInt(ctx, "activity_log_retention_days", cfg.LogRetentionDays)
			removed, err := audit.Cleanup(ctx, days)
			if err != nil {
				log.Printf("activity cleanup failed: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("activity cleanup removed %d entries older than %d days", removed, days)
			}
		}
	}
}
