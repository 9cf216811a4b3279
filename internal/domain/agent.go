// Package domain holds the core types shared by the API service and the
// agent runner.
package domain

// AgentType identifies an AI feature for metering and history tagging.
type AgentType string

// Metered agent types. Usage of these features is counted against the
// free-tier limit.
const (
	AgentResumeAnalyzer       AgentType = "resume-analyzer"
	AgentRoadmapGenerator     AgentType = "roadmap-generator"
	AgentCoverLetterGenerator AgentType = "cover-letter-generator"
)

// History tags. These describe what a history record holds and are a superset
// of the metered enumeration.
const (
	TagChat        = "ai-chat"
	TagResume      = "ai-resume-analyzer"
	TagRoadmap     = "ai-roadmap-generator"
	TagCoverLetter = "ai-cover-letter-generator"
)

// Task names registered with the agent runner.
const (
	TaskCareerChat           = "career-chat"
	TaskResumeAnalyzer       = "resume-analyzer"
	TaskRoadmapGenerator     = "roadmap-generator"
	TaskCoverLetterGenerator = "cover-letter-generator"
)

// meteredAgentTypes is the closed enumeration accepted by the usage check.
var meteredAgentTypes = map[AgentType]struct{}{
	AgentResumeAnalyzer:       {},
	AgentRoadmapGenerator:     {},
	AgentCoverLetterGenerator: {},
}

// ValidMeteredAgentType reports whether s is one of the metered agent types.
func ValidMeteredAgentType(s string) bool {
	_, ok := meteredAgentTypes[AgentType(s)]
	return ok
}
