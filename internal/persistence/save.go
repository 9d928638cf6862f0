package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/workflow"
)

// SaveDelta writes ks, ws, and hist using additive-merge semantics
// (§4.8 "Write semantics"): usage_count/frequency sum, last_used/
// last_seen take the max, first_seen takes the min. Callers pass only
// the delta accumulated since the last save: the writes are additive,
// so data passed in twice is counted twice (see
// TestStore_SaveDeltaIsAdditive).
func (s *Store) SaveDelta(ctx context.Context, ks knowledge.Snapshot, ws workflow.Snapshot, hist []history.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	if err := upsertKnowledge(ctx, tx, ks); err != nil {
		return fmt.Errorf("upsert knowledge: %w", err)
	}
	if err := upsertWorkflow(ctx, tx, ws); err != nil {
		return fmt.Errorf("upsert workflow: %w", err)
	}
	if err := insertHistory(ctx, tx, hist); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func upsertKnowledge(ctx context.Context, tx *sql.Tx, ks knowledge.Snapshot) error {
	const cmdStmt = `
		INSERT INTO command_knowledge (command_key, total_usage, first_seen, last_used)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (command_key) DO UPDATE SET
			total_usage = total_usage + excluded.total_usage,
			first_seen  = MIN(first_seen, excluded.first_seen),
			last_used   = MAX(last_used, excluded.last_used)
	`
	const argStmt = `
		INSERT INTO argument_knowledge (command_key, argument, usage_count, first_seen, last_used, is_flag)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (command_key, argument) DO UPDATE SET
			usage_count = usage_count + excluded.usage_count,
			first_seen  = MIN(first_seen, excluded.first_seen),
			last_used   = MAX(last_used, excluded.last_used),
			is_flag     = excluded.is_flag
	`

	for _, ck := range ks.Commands {
		if _, err := tx.ExecContext(ctx, cmdStmt, ck.CommandKey, ck.TotalUsage, unixMillis(ck.FirstSeen), unixMillis(ck.LastUsed)); err != nil {
			return err
		}
		for literal, arg := range ck.Arguments {
			if _, err := tx.ExecContext(ctx, argStmt, ck.CommandKey, literal, arg.UsageCount,
				unixMillis(arg.FirstSeen), unixMillis(arg.LastUsed), arg.IsFlag); err != nil {
				return err
			}
		}
	}
	return nil
}

func upsertWorkflow(ctx context.Context, tx *sql.Tx, ws workflow.Snapshot) error {
	const stmt = `
		INSERT INTO workflow_transitions (from_key, to_key, frequency, total_time_delta_ms, first_seen, last_seen)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (from_key, to_key) DO UPDATE SET
			frequency           = frequency + excluded.frequency,
			total_time_delta_ms = total_time_delta_ms + excluded.total_time_delta_ms,
			first_seen          = MIN(first_seen, excluded.first_seen),
			last_seen           = MAX(last_seen, excluded.last_seen)
	`
	for _, t := range ws.Transitions {
		firstSeen := t.FirstSeen
		if firstSeen.IsZero() {
			firstSeen = t.LastObserved
		}
		if _, err := tx.ExecContext(ctx, stmt, t.From, t.To, t.Frequency, durationToMillis(t.TimeDeltaTotal),
			unixMillis(firstSeen), unixMillis(t.LastObserved)); err != nil {
			return err
		}
	}
	return nil
}

func insertHistory(ctx context.Context, tx *sql.Tx, hist []history.Entry) error {
	const stmt = `
		INSERT INTO command_history (command_line, command, arguments, timestamp, working_directory, success)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, e := range hist {
		argsJSON, err := json.Marshal(e.Arguments)
		if err != nil {
			return fmt.Errorf("encode history arguments: %w", err)
		}
		commandLine := e.CommandKey
		for _, a := range e.Arguments {
			commandLine += " " + a
		}
		success := e.ExitStatus == 0
		if _, err := tx.ExecContext(ctx, stmt, commandLine, e.CommandKey, string(argsJSON),
			unixMillis(e.Timestamp), e.WorkingDirectory, success); err != nil {
			return err
		}
	}
	return nil
}
