// Package authz holds the pure authorization predicates applied at every
// service entry point. Predicates never touch the database; callers load the
// actor and resource first and pass them in.
package authz

import "github.com/campusvoice/feedback-api/internal/models"

// Decision is a tagged allow/deny result. Denials always carry a reason so
// entry points can log and reply without inventing messages ad hoc.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanViewFeedback permits the owning student, and the coordinator of the
// department snapshot recorded on the row. Coordinators of other departments
// are denied regardless of the row's existence being known to them.
func CanViewFeedback(actor models.Actor, fb models.Feedback) Decision {
	if fb.StudentID == actor.UserID {
		return allow()
	}
	if actor.Role == models.RoleCoordinator && sameDepartment(actor.DepartmentID, fb.DepartmentID) {
		return allow()
	}
	return deny("feedback belongs to another student or department")
}

// CanMutateFeedback permits only the owning student (deletion, anonymity
// revocation).
func CanMutateFeedback(actor models.Actor, fb models.Feedback) Decision {
	if fb.StudentID == actor.UserID {
		return allow()
	}
	return deny("only the submitting student may modify this feedback")
}

// CanAdministerStudent permits a coordinator acting on a student of their
// own department (registration approval and rejection).
func CanAdministerStudent(actor models.Actor, student models.Profile) Decision {
	if actor.Role != models.RoleCoordinator {
		return deny("only coordinators may administer student registrations")
	}
	if student.Role != models.RoleStudent {
		return deny("target account is not a student")
	}
	if !sameDepartment(actor.DepartmentID, student.DepartmentID) {
		return deny("student belongs to another department")
	}
	return allow()
}

func sameDepartment(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}
