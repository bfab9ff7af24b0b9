// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

// Persona roles. Each pipeline binds a coordinator ("brain") plus a set
// of domain experts to the same underlying model.
const (
	brainRole = "the coordinator in charge of task planning, directing the expert agents, consolidating their results, and quality control"

	methodRole     = "a methodology expert focused on understanding and explaining a paper's core method and technical principles"
	experimentRole = "an experiment expert focused on analyzing experimental design, datasets, results, and resource consumption"
	reviewerRole   = "a strict academic reviewer responsible for critically analyzing a paper's strengths, weaknesses, and scholarly rigor"

	architectRole = "an architect focused on analyzing project architecture, technology stack, and module design"
	codeRole      = "a code expert focused on analyzing core implementation, algorithmic logic, and code quality"
	usageRole     = "an application expert focused on analyzing how a project is used, its APIs, and its deployment"

	relatedBrainRole = "the coordinator in charge of planning the search strategy, directing the analysis, and consolidating the comparison results"
	techCompareRole  = "an analyst focused on comparing the technical frameworks and methodological differences between papers"
	expCompareRole   = "an analyst focused on comparing the experimental setups, tasks, and result differences between papers"
)

// Paper-analysis stage prompts.

const paperPlanPrompt = `Plan the analysis of this paper. Determine which aspects deserve the most attention and provide guidance for the expert agents.

Output:
1. The core topic of the paper.
2. Which technical points the method expert should focus on.
3. Which experiments the experiment expert should focus on.
4. Which aspects the reviewer should scrutinize.`

const methodPrompt = `Develop a deep understanding of the paper's core method. Analyze:

## 1. Core motivation
- What fundamental problem does this work address?
- What is the core flaw in existing approaches?
- What is the authors' key insight?

## 2. Core method
- The central idea of the method in one sentence.
- The key technical innovations (the essential ones, not peripheral tweaks).
- The mathematical principles or algorithmic procedure.

## 3. Method framework
- Describe the overall framework in text (ASCII diagrams or structured descriptions are fine).
- The role of each module and how they interact.

## 4. Essential difference from existing methods
- Compared with the closest baseline, what is the essential difference?

Make sure the analysis reaches the essence of the method rather than a surface description.`

const experimentPrompt = `Analyze the paper's experimental section in full. Cover:

## 1. Tasks
- On which tasks is the method validated?
- How is each task defined and evaluated?

## 2. Datasets
- Which datasets are used?
- What is their scale and what are their characteristics?

## 3. Setup
- What are the main baselines?
- How are the hyperparameters configured?

## 4. Results
- How do the main experiments turn out? How large is the improvement?
- Which design choices do the ablations validate?
- Are there any interesting analysis experiments?

## 5. Resource cost
- How much compute does training require?
- How fast is inference?
- How large is the model?`

const reviewPrompt = `Critically review this paper against strict academic standards. Analyze:

## 1. Strengths
- Novelty: how innovative is the method?
- Effectiveness: do the experiments convincingly demonstrate it?
- Clarity: is the writing clear?

## 2. Weaknesses
- What are the method's limitations?
- Where is the experimental design lacking?
- Which problems does the paper leave unresolved?

## 3. Scholarly rigor
- Is the code released?
- Are the experiments reproducible?
- Are the comparisons with related work fair?
- Are the results plausible (any overclaiming)?

## 4. Suggested revisions
- As a reviewer, what changes would you request?

## 5. Overall verdict
- Give an Accept / Weak Accept / Weak Reject / Reject recommendation with reasons.`

const paperSummaryPrompt = `Consolidate the expert analyses into a structured report on the paper.

Use exactly this layout:

# Paper Analysis Report

## 1. Core Contributions and Innovations
(Distill the 1-3 most important contributions from the method analysis.)

## 2. Motivation and Insight
(The starting point of this work and its key insight.)

## 3. Method
(The principles and framework of the core method.)

## 4. Experimental Validation
(The key results and conclusions.)

## 5. Critical Assessment
(Strengths, weaknesses, scholarly rigor.)

## 6. Research Implications
(What this suggests for follow-up work and possible improvements.)

Make the report deep, accurate, and insightful, and foreground the essentials.`

// Repository-analysis stage prompts. The same set serves model-hub
// entries, whose cards read like small repositories.

const repoPlanPrompt = `Plan the analysis of this project. Determine which aspects deserve the most attention.

Output:
1. The core functionality of the project.
2. Which modules the architecture expert should focus on.
3. Which files the code expert should analyze.
4. Which usage paths the usage expert should document.`

const architectPrompt = `Analyze the project's architecture in depth. Cover:

## 1. Positioning
- What problem does this project solve?
- Who are the target users?
- What are its advantages over comparable projects?

## 2. Architecture
- What is the overall design?
- What are the core modules and their responsibilities?
- How do the modules interact?

## 3. Technology stack
- Which languages, frameworks, and libraries are used?
- Why these choices?
- Are they reasonable?

## 4. Design patterns
- Which design patterns appear?
- Is the code organization clear?`

const codePrompt = `Analyze the project's core code in depth. Cover:

## 1. Core algorithms and logic
- What is the project's central algorithm?
- How are the key functions and types implemented?

## 2. Code quality
- Is the style consistent?
- Are comments and documentation adequate?
- Is error handling thorough?

## 3. Key implementations
- Which files and functions matter most?
- How do they realize the core functionality?

## 4. Extensibility
- Is the code easy to extend?
- What could be improved?`

const usagePrompt = `Analyze how the project is used. Cover:

## 1. Installation and configuration
- How is the project installed?
- Which dependencies does it need?
- What configuration options exist?

## 2. Basic usage
- What is the most basic workflow?
- What are the common commands or APIs?

## 3. Advanced features
- Which advanced features or configurations exist?
- How can it be customized or extended?

## 4. Caveats
- What should users watch out for?
- What are the common problems and their fixes?`

const repoSummaryPrompt = `Consolidate the expert analyses into a structured report on the project.

Use exactly this layout:

# Project Analysis Report

## 1. Overview
(Positioning, the problem it solves, target users.)

## 2. Core Innovation and Value
(The project's central innovations and distinctive value.)

## 3. Architecture
(Overall design, core modules, technology stack.)

## 4. Code Analysis
(Core implementation, code quality, key algorithms.)

## 5. Usage Guide
(Installation, basic usage, advanced features.)

## 6. Research Value and Applications
(What it suggests for research, where it applies, how it could improve.)

Make the report deep, accurate, and practical.`

// Quality-control prompts shared by both analysis pipelines. The repair
// trigger phrase is literal and must match what the classifier detects.

const reflectPrompt = `Check the quality of the final report:

1. Does it accurately reflect the core contributions?
2. Does it analyze the essence of the method rather than the surface?
3. Is any important information missing?
4. Are the sections logically coherent?

If you find problems, state "需要改进" (needs improvement) and describe the specific issues.
If the quality is acceptable, reply "质量合格" (quality acceptable).`

const improvePrompt = `Revise the report according to the quality-check feedback.

Output the complete improved report.`

// Related-work stage prompts.

const relatedKeywordPrompt = `Analyze the following paper and extract keywords for searching related work.

Output:
1. Core technical keywords (3-5, for arXiv search).
2. Task or application-domain keywords (2-3).
3. Method-category keywords (2-3).

Format example:
- keyword 1: "transformer attention mechanism"
- keyword 2: "large language model"`

const relatedFilterPrompt = `From the candidate papers, select the 5-10 most relevant to the current paper.

Selection criteria:
1. Similarity of technical approach.
2. Relevance of the research task.
3. Recency (prefer recent work).

Output the selection in this format:
[number] paper title - reason for relevance (one sentence)`

const relatedTechPrompt = `Compare the current paper against the related papers on their technical frameworks.

Analyze:
1. Similarities and differences in the core technical approach.
2. Differences in model architecture.
3. A comparison of the innovations.
4. The lineage (which are prior work, which are parallel work).`

const relatedExpPrompt = `Compare the current paper against the related papers on their experiments.

Analyze:
1. Similarities and differences in the experimental tasks.
2. A comparison of the datasets used.
3. Differences in the evaluation metrics.
4. A comparison of the results (where available).`

const relatedSummaryPrompt = `Consolidate all the analyses into a complete related-work report.

Use exactly this layout:

# Related Work Analysis Report

## 1. Search Keywords
(The keywords used for the search.)

## 2. Most Relevant Papers
(The 5-10 selected papers with title, link, and reason for relevance.)

## 3. Technical Framework Comparison
(How the current paper connects to and differs from the related work technically.)

## 4. Experimental Comparison
(How tasks, datasets, and results compare.)

## 5. Research Lineage
(How these works evolve from one another and where the current paper sits.)

## 6. Suggested Reading Order
(A recommended order with reasons.)

Make the analysis deep, objective, and insightful.`
