package ai

// DefaultSystemPrompt is the system-level instruction for feedback
// synthesis.
const DefaultSystemPrompt = `You are an expert resume reviewer with deep ATS and recruitment knowledge. Your core principles are:

- Base every observation on text actually present in the resume
- Be specific: quote the bullet you are criticizing and show the rewrite
- Never invent skills, metrics, or experience the candidate does not claim
- Keep the summary to two or three sentences, actionable and direct

Your feedback supplements a deterministic rule-based audit. Focus on what
rules cannot see: wording, positioning, relevance to the target role.`

// DefaultUserPromptTemplate is the user prompt template for synthesis.
// The two placeholders are the resume text and the job description block.
const DefaultUserPromptTemplate = `Review the following resume and produce qualitative feedback.

**Tasks:**

1. **Summary feedback**:
   Write a two-to-three sentence overall assessment of the resume:
   its strongest quality and the single most valuable improvement.

2. **Section suggestions**:
   For each resume section that needs work (Summary, Experience, Skills,
   Education, Projects), list specific issues and a concrete rewritten
   example per issue. Skip sections that are fine.

%s

**Resume:**
%s`

// jobDescriptionBlock is inserted into the user prompt when a target job
// description is supplied.
const jobDescriptionBlock = `**Target job description (tailor the feedback to it):**
%s`

// noJobDescriptionBlock replaces the job description when none was
// supplied.
const noJobDescriptionBlock = `No target job description was provided. Review for general ATS readiness.`

// maxPromptResumeChars bounds the resume text sent to the model.
const maxPromptResumeChars = 25000

// maxPromptJobChars bounds the job description sent to the model.
const maxPromptJobChars = 3000
