/*
Copyright © 2025 The solonode authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package provision drives the ordered stage pipeline that turns a fresh
// Debian host into a one-node Kubernetes control plane. Each stage is an
// explicit state transition returning a Result describing what changed; the
// runner applies stages in order and records a journal of outcomes.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"sigs.k8s.io/yaml"

	"github.com/solonode/solonode/pkg/constants"
	"github.com/solonode/solonode/pkg/utils"
)

// Policy states whether a stage failure aborts the run.
type Policy int

const (
	// PolicyRequired aborts the whole run on failure.
	PolicyRequired Policy = iota
	// PolicyBestEffort logs the failure and continues.
	PolicyBestEffort
)

func (p Policy) String() string {
	if p == PolicyBestEffort {
		return "best-effort"
	}
	return "required"
}

// Result describes the host-state changes a stage performed.
type Result struct {
	Changes []string
}

// Changed records a change description on the result.
func (r *Result) Changed(format string, args ...any) {
	r.Changes = append(r.Changes, fmt.Sprintf(format, args...))
}

// Stage is one step of the pipeline: given host state S, produce host state
// S' or fail.
type Stage struct {
	Name   string
	Short  string
	Policy Policy
	Run    func(ctx context.Context, data *RunData) (*Result, error)
}

// StageRecord is the journal entry of one executed stage.
type StageRecord struct {
	Name     string        `json:"name"`
	Policy   string        `json:"policy"`
	Outcome  string        `json:"outcome"`
	Error    string        `json:"error,omitempty"`
	Changes  []string      `json:"changes,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Journal is the record of a whole provisioning run.
type Journal struct {
	RunID     string        `json:"runID"`
	StartedAt time.Time     `json:"startedAt"`
	CNI       string        `json:"cni"`
	DryRun    bool          `json:"dryRun,omitempty"`
	Records   []StageRecord `json:"records"`
}

var bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// Pipeline runs stages in order against the host.
type Pipeline struct {
	Stages []Stage
	Out    io.Writer
	DryRun bool
}

// Run executes the stages in order. A Required stage failure aborts the run
// and is returned; BestEffort failures are logged and recorded only. The
// journal covers every stage reached, including the failing one.
func (p *Pipeline) Run(ctx context.Context, data *RunData) (*Journal, error) {
	journal := &Journal{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		CNI:       data.Config.CNI,
		DryRun:    p.DryRun,
	}

	last := len(p.Stages) - 1
	for i, stage := range p.Stages {
		fmt.Fprintf(p.Out, "%s %s\n", bannerStyle.Render(fmt.Sprintf("[%d/%d]", i, last)), stage.Short)

		if p.DryRun {
			journal.Records = append(journal.Records, StageRecord{
				Name:    stage.Name,
				Policy:  stage.Policy.String(),
				Outcome: "skipped (dry-run)",
			})
			continue
		}

		record, err := p.runStage(ctx, stage, data)
		journal.Records = append(journal.Records, record)

		if err != nil && stage.Policy == PolicyRequired {
			p.writeJournal(journal)
			// Wrapping keeps the documented exit codes reachable through
			// errors.As.
			return journal, errors.Wrapf(err, "stage %s failed", stage.Name)
		}
	}

	p.writeJournal(journal)
	return journal, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, data *RunData) (StageRecord, error) {
	record := StageRecord{
		Name:   stage.Name,
		Policy: stage.Policy.String(),
	}

	started := time.Now()
	result, err := stage.Run(ctx, data)
	record.Duration = time.Since(started)

	if result != nil {
		record.Changes = result.Changes
	}
	if err != nil {
		record.Error = err.Error()
		if stage.Policy == PolicyBestEffort {
			record.Outcome = "failed (ignored)"
			log.WithError(err).Warnf("Stage %s failed, continuing", stage.Name)
			return record, nil
		}
		record.Outcome = "failed"
		return record, err
	}

	record.Outcome = "succeeded"
	return record, nil
}

// writeJournal persists the run journal for later inspection. Best-effort.
func (p *Pipeline) writeJournal(journal *Journal) {
	content, err := yaml.Marshal(journal)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal run journal")
		return
	}
	if err := utils.FS.MkdirAll(constants.JournalDirectory, os.FileMode(0755)); err != nil {
		log.WithError(err).Warn("Failed to create journal directory")
		return
	}
	if err := utils.FS.WriteFile(constants.JournalFile, content, os.FileMode(0644)); err != nil {
		log.WithError(err).Warn("Failed to write run journal")
	}
}
