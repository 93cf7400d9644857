package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, stmt := range []string{
				`CREATE TABLE IF NOT EXISTS events (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					theme TEXT NOT NULL DEFAULT '',
					description TEXT NOT NULL DEFAULT '',
					mode TEXT NOT NULL DEFAULT 'online',
					tracks TEXT[] NOT NULL DEFAULT '{}',
					rules TEXT[] NOT NULL DEFAULT '{}',
					prizes TEXT[] NOT NULL DEFAULT '{}',
					sponsors TEXT[] NOT NULL DEFAULT '{}',
					start_date TIMESTAMPTZ,
					end_date TIMESTAMPTZ,
					created_by TEXT NOT NULL DEFAULT '',
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_events_created_by ON events(created_by)`,
				`CREATE TABLE IF NOT EXISTS timeline (
					id TEXT PRIMARY KEY,
					event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					label TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					date TIMESTAMPTZ,
					status TEXT NOT NULL DEFAULT 'pending',
					sort_order INTEGER NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_timeline_event ON timeline(event_id, sort_order)`,
				`CREATE TABLE IF NOT EXISTS teams (
					id TEXT PRIMARY KEY,
					event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					name TEXT NOT NULL,
					leader_id TEXT NOT NULL,
					members TEXT[] NOT NULL,
					max_members INTEGER NOT NULL DEFAULT 4 CHECK (max_members BETWEEN 1 AND 10),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_teams_event ON teams(event_id, created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_teams_members ON teams USING GIN (members)`,
				`CREATE TABLE IF NOT EXISTS submissions (
					id TEXT PRIMARY KEY,
					event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					team_id TEXT NOT NULL DEFAULT '',
					submitted_by TEXT NOT NULL DEFAULT '',
					title TEXT NOT NULL,
					description TEXT NOT NULL,
					repo_url TEXT NOT NULL DEFAULT '',
					video_url TEXT NOT NULL DEFAULT '',
					track TEXT NOT NULL DEFAULT '',
					tags TEXT[] NOT NULL DEFAULT '{}',
					heuristic_score INTEGER NOT NULL CHECK (heuristic_score BETWEEN 0 AND 100),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_submissions_event ON submissions(event_id, created_at, id)`,
				`CREATE TABLE IF NOT EXISTS scores (
					id TEXT PRIMARY KEY,
					submission_id TEXT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
					event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					judge_id TEXT NOT NULL,
					round INTEGER NOT NULL DEFAULT 1 CHECK (round >= 1),
					innovation INTEGER NOT NULL,
					technical INTEGER NOT NULL,
					design INTEGER NOT NULL,
					impact INTEGER NOT NULL,
					total INTEGER NOT NULL,
					feedback TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT scores_total_is_sum CHECK (total = innovation + technical + design + impact)
				)`,
				`CREATE UNIQUE INDEX IF NOT EXISTS uq_scores_slot ON scores(submission_id, judge_id, round)`,
				`CREATE INDEX IF NOT EXISTS idx_scores_event ON scores(event_id)`,
				`CREATE TABLE IF NOT EXISTS announcements (
					id TEXT PRIMARY KEY,
					event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					message TEXT NOT NULL,
					created_by TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_announcements_event ON announcements(event_id, created_at DESC)`,
			} {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("init schema: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx,
			`DROP TABLE IF EXISTS announcements, scores, submissions, teams, timeline, events CASCADE`)
		if err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
		return nil
	})
}
