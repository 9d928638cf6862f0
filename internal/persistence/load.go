package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/workflow"
)

func (s *Store) loadKnowledge(ctx context.Context) (knowledge.Snapshot, error) {
	cmdRows, err := s.db.QueryContext(ctx, `SELECT command_key, total_usage, first_seen, last_used FROM command_knowledge`)
	if err != nil {
		return knowledge.Snapshot{}, err
	}
	defer cmdRows.Close()

	byKey := make(map[string]knowledge.CommandKnowledge)
	for cmdRows.Next() {
		var key string
		var total int64
		var firstSeen, lastUsed int64
		if err := cmdRows.Scan(&key, &total, &firstSeen, &lastUsed); err != nil {
			return knowledge.Snapshot{}, err
		}
		byKey[key] = knowledge.CommandKnowledge{
			CommandKey: key,
			TotalUsage: total,
			FirstSeen:  fromMillis(firstSeen),
			LastUsed:   fromMillis(lastUsed),
			Arguments:  make(map[string]knowledge.ArgumentKnowledge),
		}
	}
	if err := cmdRows.Err(); err != nil {
		return knowledge.Snapshot{}, err
	}

	argRows, err := s.db.QueryContext(ctx, `SELECT command_key, argument, usage_count, first_seen, last_used, is_flag FROM argument_knowledge`)
	if err != nil {
		return knowledge.Snapshot{}, err
	}
	defer argRows.Close()

	for argRows.Next() {
		var key, literal string
		var usageCount int64
		var firstSeen, lastUsed int64
		var isFlag bool
		if err := argRows.Scan(&key, &literal, &usageCount, &firstSeen, &lastUsed, &isFlag); err != nil {
			return knowledge.Snapshot{}, err
		}
		ck, ok := byKey[key]
		if !ok {
			continue // orphaned argument row without a parent command_knowledge row
		}
		ck.Arguments[literal] = knowledge.ArgumentKnowledge{
			Literal:    literal,
			UsageCount: usageCount,
			FirstSeen:  fromMillis(firstSeen),
			LastUsed:   fromMillis(lastUsed),
			IsFlag:     isFlag,
		}
	}
	if err := argRows.Err(); err != nil {
		return knowledge.Snapshot{}, err
	}

	snap := knowledge.Snapshot{Commands: make([]knowledge.CommandKnowledge, 0, len(byKey))}
	for _, ck := range byKey {
		snap.Commands = append(snap.Commands, ck)
	}
	return snap, nil
}

func (s *Store) loadWorkflow(ctx context.Context) (workflow.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT from_key, to_key, frequency, total_time_delta_ms, first_seen, last_seen FROM workflow_transitions`)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	defer rows.Close()

	var snap workflow.Snapshot
	for rows.Next() {
		var from, to string
		var freq, deltaMs, firstSeen, lastSeen int64
		if err := rows.Scan(&from, &to, &freq, &deltaMs, &firstSeen, &lastSeen); err != nil {
			return workflow.Snapshot{}, err
		}
		snap.Transitions = append(snap.Transitions, workflow.Transition{
			From:           from,
			To:             to,
			Frequency:      freq,
			TimeDeltaTotal: millisToDuration(deltaMs),
			FirstSeen:      fromMillis(firstSeen),
			LastObserved:   fromMillis(lastSeen),
		})
	}
	return snap, rows.Err()
}

func (s *Store) loadHistory(ctx context.Context) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT command, arguments, timestamp, working_directory, success FROM command_history ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []history.Entry
	for rows.Next() {
		var command, argsJSON, workDir string
		var ts int64
		var success bool
		if err := rows.Scan(&command, &argsJSON, &ts, &workDir, &success); err != nil {
			return nil, err
		}
		var args []string
		if argsJSON != "" {
			if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
				return nil, fmt.Errorf("decode history arguments: %w", err)
			}
		}
		exitStatus := 0
		if !success {
			exitStatus = 1
		}
		out = append(out, history.Entry{
			Timestamp:        fromMillis(ts),
			CommandKey:       command,
			Arguments:        args,
			WorkingDirectory: workDir,
			ExitStatus:       exitStatus,
		})
	}
	return out, rows.Err()
}
