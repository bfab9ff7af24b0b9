// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"fmt"

	"github.com/pdiddy/research-assistant/internal/llm"
	"github.com/pdiddy/research-assistant/pkg/types"
)

// visionPrompt instructs the vision agent how to read the three image
// families that show up in papers and repositories.
const visionPrompt = `Analyze the supplied images and provide an expert interpretation.

For architecture or flow diagrams:
1. Identify the main components and modules.
2. Explain the relationships and data flow between components.
3. Summarize the overall design.

For experimental charts or tables:
1. Identify the chart type (line chart, bar chart, table, ...).
2. Extract the key data points and trends.
3. Interpret the experimental conclusions.

For any other image:
1. Describe the main content.
2. Explain its role in the paper or project.
3. Extract the key information.

Structure the output clearly.`

// visionContextLimit caps the free-text context attached to an image
// analysis request.
const visionContextLimit = 2000

// VisionAgent interprets architecture diagrams, result charts, and
// tables. Construct it only when the active model is multimodal.
type VisionAgent struct {
	*Agent
}

// NewVision builds the vision persona, or nil when the caller's model is
// not on the multimodal allow-list.
func NewVision(caller *llm.Caller) *VisionAgent {
	if !IsMultimodal(caller.Model) {
		return nil
	}
	return &VisionAgent{Agent: New(caller, "the vision analyst",
		"a multimodal expert focused on interpreting architecture diagrams, experimental charts, and tables")}
}

// AnalyzeImages returns a textual interpretation of the images, with the
// context excerpt framing what they belong to. It returns an empty
// string when no images are supplied or the model lacks vision support.
func (v *VisionAgent) AnalyzeImages(ctx context.Context, images []types.ImageRef, background string) (string, error) {
	if v == nil || len(images) == 0 || !v.Vision {
		return "", nil
	}
	content := "Analyze the following images."
	if background != "" {
		content = fmt.Sprintf("Analyze the following images.\n\nBackground:\n%s", clip(background, visionContextLimit))
	}
	return v.Think(ctx, visionPrompt, content, WithImages(images))
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
