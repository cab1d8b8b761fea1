package engine

import "github.com/RealZimboGuy/newsflow/internal/domain"

// stageTransitions maps an approved item type to the workflow stage that runs next.
var stageTransitions = map[domain.ApprovalType]string{
	domain.ApprovalTypeStories:      "generate-subject-lines",
	domain.ApprovalTypeSubjectLines: "generate-content",
	domain.ApprovalTypeImages:       "finalize-newsletter",
	domain.ApprovalTypeFinalContent: "publish-newsletter",
}

// NextStage returns the stage to trigger once an item of the given type is approved.
func NextStage(approvalType domain.ApprovalType) (string, bool) {
	stage, ok := stageTransitions[approvalType]
	return stage, ok
}

// KnownApprovalType reports whether the type has a transition.
func KnownApprovalType(approvalType domain.ApprovalType) bool {
	_, ok := stageTransitions[approvalType]
	return ok
}
