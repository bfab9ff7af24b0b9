// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the multi-agent analysis flows: deep
// content analysis of a single paper or project, related-work discovery,
// and batch runs over search results.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/research-assistant/internal/agent"
	"github.com/pdiddy/research-assistant/internal/classify"
	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// Progress receives one human-readable line before each stage runs. A
// nil callback is tolerated.
type Progress func(msg string)

// DefaultMaxRepairPasses bounds how many improve passes follow a failed
// quality check.
const DefaultMaxRepairPasses = 1

// expert is one domain-analysis stage: a persona, its task prompt, the
// section label its output carries in the consolidation content, and the
// progress line announcing it.
type expert struct {
	agent  *agent.Agent
	prompt string
	label  string
	note   string
}

// ContentAnalysis runs the staged deep analysis of one piece of content:
// plan, domain experts, optional image interpretation, consolidation,
// then a quality check with bounded repair. Any stage error aborts the
// run.
type ContentAnalysis struct {
	brain           *agent.Agent
	vision          *agent.VisionAgent
	experts         []expert
	planPrompt      string
	summaryPrompt   string
	classifier      classify.Classifier
	maxRepairPasses int
}

// NewPaperAnalysis builds the paper pipeline: method understanding,
// experiment analysis, and critical review.
func NewPaperAnalysis(caller *llm.Caller, maxRepairPasses int) *ContentAnalysis {
	return &ContentAnalysis{
		brain:  agent.New(caller, "the coordinator", brainRole),
		vision: agent.NewVision(caller),
		experts: []expert{
			{agent.New(caller, "the method expert", methodRole), methodPrompt,
				"Method analysis", "the method expert is analyzing the core method..."},
			{agent.New(caller, "the experiment expert", experimentRole), experimentPrompt,
				"Experiment analysis", "the experiment expert is analyzing the experimental design..."},
			{agent.New(caller, "the reviewer", reviewerRole), reviewPrompt,
				"Review", "the reviewer is performing a critical review..."},
		},
		planPrompt:      paperPlanPrompt,
		summaryPrompt:   paperSummaryPrompt,
		classifier:      classify.Markers{},
		maxRepairPasses: repairPasses(maxRepairPasses),
	}
}

// NewProjectAnalysis builds the repository pipeline, also used for
// model-hub entries: architecture, code, and usage analysis.
func NewProjectAnalysis(caller *llm.Caller, maxRepairPasses int) *ContentAnalysis {
	return &ContentAnalysis{
		brain:  agent.New(caller, "the coordinator", brainRole),
		vision: agent.NewVision(caller),
		experts: []expert{
			{agent.New(caller, "the architecture expert", architectRole), architectPrompt,
				"Architecture analysis", "the architecture expert is analyzing the project architecture..."},
			{agent.New(caller, "the code expert", codeRole), codePrompt,
				"Code analysis", "the code expert is analyzing the core code..."},
			{agent.New(caller, "the usage expert", usageRole), usagePrompt,
				"Usage analysis", "the usage expert is analyzing how the project is used..."},
		},
		planPrompt:      repoPlanPrompt,
		summaryPrompt:   repoSummaryPrompt,
		classifier:      classify.Markers{},
		maxRepairPasses: repairPasses(maxRepairPasses),
	}
}

func repairPasses(n int) int {
	if n <= 0 {
		return DefaultMaxRepairPasses
	}
	return n
}

// Run analyzes the content and returns the final report. Images are
// interpreted only when the underlying model is multimodal; otherwise
// they are ignored.
func (p *ContentAnalysis) Run(ctx context.Context, content string, images []types.ImageRef, progress Progress) (string, error) {
	if progress == nil {
		progress = func(string) {}
	}

	progress("the coordinator is planning the analysis...")
	if _, err := p.brain.Think(ctx, p.planPrompt, content); err != nil {
		return "", fmt.Errorf("planning stage: %w", err)
	}

	var sections strings.Builder
	fmt.Fprintf(&sections, "Original content:\n%s\n\nExpert analyses:\n", content)
	for _, e := range p.experts {
		progress(e.note)
		result, err := e.agent.Think(ctx, e.prompt, content)
		if err != nil {
			return "", fmt.Errorf("%s stage: %w", strings.ToLower(e.label), err)
		}
		fmt.Fprintf(&sections, "\n[%s]\n%s\n", e.label, result)
	}

	if len(images) > 0 && p.vision != nil {
		progress("the vision analyst is interpreting the images...")
		interpretation, err := p.vision.AnalyzeImages(ctx, images, content)
		if err != nil {
			return "", fmt.Errorf("vision stage: %w", err)
		}
		if interpretation != "" {
			fmt.Fprintf(&sections, "\n[Image analysis]\n%s\n", interpretation)
		}
	}

	progress("the coordinator is consolidating the analyses...")
	report, err := p.brain.Think(ctx, p.summaryPrompt, sections.String())
	if err != nil {
		return "", fmt.Errorf("summary stage: %w", err)
	}

	for pass := 0; pass < p.maxRepairPasses; pass++ {
		progress("the coordinator is checking report quality...")
		reflection, err := p.brain.Think(ctx, reflectPrompt,
			fmt.Sprintf("Final report:\n%s\n\nOriginal content:\n%s", report, content))
		if err != nil {
			return "", fmt.Errorf("reflection stage: %w", err)
		}
		if !p.classifier.NeedsRepair(reflection) {
			break
		}

		progress("problems found, improving the report...")
		report, err = p.brain.Think(ctx, improvePrompt,
			fmt.Sprintf("Quality-check feedback:\n%s\n\nOriginal report:\n%s\n\nOriginal content:\n%s", reflection, report, content))
		if err != nil {
			return "", fmt.Errorf("improve stage: %w", err)
		}
	}

	return report, nil
}

// clip truncates s to at most n bytes without splitting a UTF-8 rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
