// Package cron runs the daily notification job in the background.
package cron

import (
	"context"
	"log"
	"time"

	"coaching-backend/internal/email"
	"coaching-backend/internal/models"
	"coaching-backend/internal/notifier"
	"coaching-backend/internal/repository"
)

const cycleTimeout = 2 * time.Minute

// Job generates notifications for every admin of every tenant and mails
// each tenant owner a digest of what was produced.
type Job struct {
	svc      *notifier.Service
	tenants  repository.TenantDirectory
	sender   email.Sender // nil disables digests
	panelURL string
	now      func() time.Time
}

// NewJob creates a Job. sender may be nil.
func NewJob(svc *notifier.Service, tenants repository.TenantDirectory, sender email.Sender, panelURL string) *Job {
	return &Job{svc: svc, tenants: tenants, sender: sender, panelURL: panelURL, now: time.Now}
}

// CycleResult summarises one pass over all tenants.
type CycleResult struct {
	Tenants       int
	Notifications int
	DigestsSent   int
}

// StartNotifier runs the job once immediately and then every interval until
// ctx is cancelled.
func StartNotifier(ctx context.Context, job *Job, interval time.Duration) {
	go func() {
		job.RunCycle(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[cron] notifier stopped")
				return
			case <-ticker.C:
				job.RunCycle(ctx)
			}
		}
	}()

	log.Printf("[cron] notifier started – runs every %s", interval)
}

// RunCycle processes every tenant. Failures are logged per tenant and never
// stop the remaining tenants.
func (j *Job) RunCycle(ctx context.Context) CycleResult {
	ctx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	var res CycleResult

	tenants, err := j.tenants.ListTenants(ctx)
	if err != nil {
		log.Printf("[cron] error listing tenants: %v", err)
		return res
	}

	for _, t := range tenants {
		if ctx.Err() != nil {
			log.Printf("[cron] cycle aborted: %v", ctx.Err())
			break
		}
		res.Tenants++

		if len(t.AdminIDs) == 0 {
			log.Printf("[cron] tenant %s has no admins, skipping", t.ID)
			continue
		}

		runs := make([]models.DailyRun, 0, len(t.AdminIDs))
		total := 0
		for _, adminID := range t.AdminIDs {
			run := j.svc.RunDaily(ctx, t.ID, adminID)
			runs = append(runs, run)
			total += run.Total
		}
		res.Notifications += total

		if total > 0 && j.sendDigest(ctx, t, runs) {
			res.DigestsSent++
		}
	}

	log.Printf("[cron] cycle complete – %d tenants, %d new notifications, %d digests",
		res.Tenants, res.Notifications, res.DigestsSent)
	return res
}

func (j *Job) sendDigest(ctx context.Context, t models.Tenant, runs []models.DailyRun) bool {
	if j.sender == nil || t.OwnerEmail == "" {
		return false
	}

	digest, err := email.RenderDigest(t, runs, j.panelURL, j.now())
	if err != nil {
		log.Printf("[cron] tenant %s: %v", t.ID, err)
		return false
	}

	if _, err := j.sender.Send(ctx, email.SendRequest{
		To:      []string{t.OwnerEmail},
		Subject: digest.Subject,
		HTML:    digest.HTML,
	}); err != nil {
		log.Printf("[cron] tenant %s: send digest: %v", t.ID, err)
		return false
	}
	return true
}
