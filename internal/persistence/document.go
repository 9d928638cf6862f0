package persistence

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/osutil"
	"github.com/pscue/pscue/internal/workflow"
)

// Document is the single neutral text document produced by Export and
// consumed by Import (§4.8 "Import/export"). It is a plain key-value
// object serialized as YAML, not a database dump, so it can be read,
// diffed, and hand-edited.
type Document struct {
	Commands    []DocumentCommand    `yaml:"commands"`
	Transitions []DocumentTransition `yaml:"transitions"`
}

// DocumentCommand is one command-key's knowledge, flattened for the
// neutral document.
type DocumentCommand struct {
	CommandKey string             `yaml:"command_key"`
	TotalUsage int64              `yaml:"total_usage"`
	FirstSeen  time.Time          `yaml:"first_seen"`
	LastUsed   time.Time          `yaml:"last_used"`
	Arguments  []DocumentArgument `yaml:"arguments"`
}

// DocumentArgument is one argument record within a DocumentCommand.
type DocumentArgument struct {
	Literal    string    `yaml:"literal"`
	UsageCount int64     `yaml:"usage_count"`
	FirstSeen  time.Time `yaml:"first_seen"`
	LastUsed   time.Time `yaml:"last_used"`
	IsFlag     bool      `yaml:"is_flag"`
}

// DocumentTransition is one learned workflow transition.
type DocumentTransition struct {
	From           string        `yaml:"from"`
	To             string        `yaml:"to"`
	Frequency      int64         `yaml:"frequency"`
	TimeDeltaTotal time.Duration `yaml:"time_delta_total"`
	FirstSeen      time.Time     `yaml:"first_seen"`
	LastObserved   time.Time     `yaml:"last_observed"`
}

// ToDocument flattens a knowledge.Snapshot and workflow.Snapshot into
// the exported Document shape.
func ToDocument(ks knowledge.Snapshot, ws workflow.Snapshot) Document {
	doc := Document{
		Commands:    make([]DocumentCommand, 0, len(ks.Commands)),
		Transitions: make([]DocumentTransition, 0, len(ws.Transitions)),
	}
	for _, ck := range ks.Commands {
		dc := DocumentCommand{
			CommandKey: ck.CommandKey,
			TotalUsage: ck.TotalUsage,
			FirstSeen:  ck.FirstSeen,
			LastUsed:   ck.LastUsed,
			Arguments:  make([]DocumentArgument, 0, len(ck.Arguments)),
		}
		for _, a := range ck.Arguments {
			dc.Arguments = append(dc.Arguments, DocumentArgument{
				Literal:    a.Literal,
				UsageCount: a.UsageCount,
				FirstSeen:  a.FirstSeen,
				LastUsed:   a.LastUsed,
				IsFlag:     a.IsFlag,
			})
		}
		doc.Commands = append(doc.Commands, dc)
	}
	for _, t := range ws.Transitions {
		doc.Transitions = append(doc.Transitions, DocumentTransition{
			From: t.From, To: t.To, Frequency: t.Frequency,
			TimeDeltaTotal: t.TimeDeltaTotal, FirstSeen: t.FirstSeen, LastObserved: t.LastObserved,
		})
	}
	return doc
}

// FromDocument expands a Document back into snapshots for loading or
// merging into a knowledge.Graph / workflow.Learner.
func FromDocument(doc Document) (knowledge.Snapshot, workflow.Snapshot) {
	ks := knowledge.Snapshot{Commands: make([]knowledge.CommandKnowledge, 0, len(doc.Commands))}
	for _, dc := range doc.Commands {
		ck := knowledge.CommandKnowledge{
			CommandKey: dc.CommandKey,
			TotalUsage: dc.TotalUsage,
			FirstSeen:  dc.FirstSeen,
			LastUsed:   dc.LastUsed,
			Arguments:  make(map[string]knowledge.ArgumentKnowledge, len(dc.Arguments)),
		}
		for _, a := range dc.Arguments {
			ck.Arguments[a.Literal] = knowledge.ArgumentKnowledge{
				Literal: a.Literal, UsageCount: a.UsageCount,
				FirstSeen: a.FirstSeen, LastUsed: a.LastUsed, IsFlag: a.IsFlag,
			}
		}
		ks.Commands = append(ks.Commands, ck)
	}

	var ws workflow.Snapshot
	for _, dt := range doc.Transitions {
		ws.Transitions = append(ws.Transitions, workflow.Transition{
			From: dt.From, To: dt.To, Frequency: dt.Frequency,
			TimeDeltaTotal: dt.TimeDeltaTotal, FirstSeen: dt.FirstSeen, LastObserved: dt.LastObserved,
		})
	}
	return ks, ws
}

// Export writes a neutral YAML document capturing ks and ws to path.
// The document is written to a temporary file in the same directory
// and renamed into place, so a reader never observes a partially
// written export.
func Export(path string, ks knowledge.Snapshot, ws workflow.Snapshot) error {
	doc := ToDocument(ks, ws)
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := osutil.TempFilePath(dir, "export-*.yaml")
	if err != nil {
		return err
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ImportDocument parses a neutral document from path without mutating
// any state (§7 "Import failure: report to caller, do not mutate
// state" — callers apply the returned snapshots only after this
// succeeds).
func ImportDocument(path string) (knowledge.Snapshot, workflow.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return knowledge.Snapshot{}, workflow.Snapshot{}, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return knowledge.Snapshot{}, workflow.Snapshot{}, err
	}
	ks, ws := FromDocument(doc)
	return ks, ws, nil
}
