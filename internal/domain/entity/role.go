package entity

// Role - закрытый набор ролей пользователя
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Permission - возможность, проверяемая на границе доступа
type Permission string

const (
	PermQuizTake       Permission = "quiz:take"
	PermAttemptViewOwn Permission = "attempt:view-own"
	PermAttemptViewAll Permission = "attempt:view-all"
	PermAttemptExport  Permission = "attempt:export"
)

var rolePermissions = map[Role][]Permission{
	RoleStudent: {
		PermQuizTake,
		PermAttemptViewOwn,
	},
	RoleTeacher: {
		PermAttemptViewAll,
		PermAttemptExport,
	},
}

// ParseRole возвращает роль по строке и признак того, что роль известна
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleStudent, RoleTeacher:
		return Role(s), true
	default:
		return "", false
	}
}

// IsValid проверяет, что роль входит в закрытый набор
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Can проверяет, есть ли у роли указанная возможность
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
