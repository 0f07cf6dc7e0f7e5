package auth

import "peerprep/interview/internal/apperrors"

// Operation names one externally reachable action.
type Operation string

const (
	OpRegister Operation = "auth.register"
	OpLogin    Operation = "auth.login"
	OpProfile  Operation = "user.profile"

	OpListQuestions  Operation = "question.list"
	OpHotQuestions   Operation = "question.hot"
	OpGetQuestion    Operation = "question.get"
	OpCreateQuestion Operation = "question.create"
	OpUpdateQuestion Operation = "question.update"
	OpDeleteQuestion Operation = "question.delete"

	OpListCategories Operation = "category.list"
	OpGetCategory    Operation = "category.get"
	OpCreateCategory Operation = "category.create"
	OpRenameCategory Operation = "category.rename"
	OpDeleteCategory Operation = "category.delete"

	OpLike          Operation = "reaction.like"
	OpUnlike        Operation = "reaction.unlike"
	OpLikeStatus    Operation = "reaction.like_status"
	OpCollect       Operation = "reaction.collect"
	OpUncollect     Operation = "reaction.uncollect"
	OpCollectStatus Operation = "reaction.collect_status"

	OpListForReview     Operation = "moderation.list_review"
	OpListPending       Operation = "moderation.list_pending"
	OpReviewQuestions   Operation = "moderation.review"
	OpModerationHistory Operation = "moderation.history"

	OpListUsers        Operation = "admin.list_users"
	OpSetUserStatus    Operation = "admin.set_user_status"
	OpUpdateUser       Operation = "superadmin.update_user"
	OpDeleteUser       Operation = "superadmin.delete_user"
	OpBatchDeleteUsers Operation = "superadmin.batch_delete_users"
	OpResetPassword    Operation = "superadmin.reset_password"

	OpCreateMockInterview    Operation = "mock.create"
	OpSubmitMockInterview    Operation = "mock.submit"
	OpGetMockInterview       Operation = "mock.get"
	OpMockInterviewQuestions Operation = "mock.questions"
	OpMockInterviewHistory   Operation = "mock.history"
)

// Policy is the declared gate of every operation. Operations absent from
// the table are denied, so RequireNone entries form the public allow-list.
var Policy = map[Operation]Requirement{
	OpRegister: RequireNone,
	OpLogin:    RequireNone,
	OpProfile:  RequireUser,

	OpListQuestions:  RequireNone,
	OpHotQuestions:   RequireNone,
	OpGetQuestion:    RequireNone,
	OpCreateQuestion: RequireUser,
	OpUpdateQuestion: RequireUser,
	OpDeleteQuestion: RequireUser,

	OpListCategories: RequireNone,
	OpGetCategory:    RequireNone,
	OpCreateCategory: RequireAdmin,
	OpRenameCategory: RequireAdmin,
	OpDeleteCategory: RequireAdmin,

	OpLike:          RequireUser,
	OpUnlike:        RequireUser,
	OpLikeStatus:    RequireUser,
	OpCollect:       RequireUser,
	OpUncollect:     RequireUser,
	OpCollectStatus: RequireUser,

	OpListForReview:     RequireAdmin,
	OpListPending:       RequireAdmin,
	OpReviewQuestions:   RequireAdmin,
	OpModerationHistory: RequireAdmin,

	OpListUsers:        RequireAdmin,
	OpSetUserStatus:    RequireAdmin,
	OpUpdateUser:       RequireSuperAdmin,
	OpDeleteUser:       RequireSuperAdmin,
	OpBatchDeleteUsers: RequireSuperAdmin,
	OpResetPassword:    RequireSuperAdmin,

	OpCreateMockInterview:    RequireUser,
	OpSubmitMockInterview:    RequireUser,
	OpGetMockInterview:       RequireUser,
	OpMockInterviewQuestions: RequireUser,
	OpMockInterviewHistory:   RequireUser,
}

// Check gates op for p using Policy.
func Check(p *Principal, op Operation) error {
	req, ok := Policy[op]
	if !ok {
		return apperrors.PermissionDenied("operation " + string(op) + " has no declared policy")
	}
	return Authorize(p, req)
}
