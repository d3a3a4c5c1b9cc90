package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "github.com/wjy1814-droid/memos/pkg/errors"
)

// Domain errors shared across services. Each carries the HTTP status the
// API boundary renders it with.
var (
	// ErrGroupNotFound indicates the requested group does not exist.
	ErrGroupNotFound = apperrors.New("GROUP_NOT_FOUND", "Group not found", http.StatusNotFound)
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrMemoNotFound indicates the requested memo does not exist.
	ErrMemoNotFound = apperrors.New("MEMO_NOT_FOUND", "Memo not found", http.StatusNotFound)

	// ErrNotAMember signals the caller has no membership in the target group.
	ErrNotAMember = apperrors.New("GROUP_ACCESS_DENIED", "You are not a member of this group", http.StatusForbidden)
	// ErrRoleDenied signals the caller's role does not allow the operation.
	ErrRoleDenied = apperrors.New("GROUP_ROLE_DENIED", "Your role does not allow this operation", http.StatusForbidden)

	// ErrMemberAlreadyExists signals the user is already a member of the group.
	ErrMemberAlreadyExists = apperrors.New("GROUP_MEMBER_EXISTS", "Already a member of this group", http.StatusConflict)
	// ErrMemberNotFound indicates the requested membership does not exist.
	ErrMemberNotFound = apperrors.New("GROUP_MEMBER_NOT_FOUND", "User is not a member of the group", http.StatusNotFound)
	// ErrOwnerProtected rejects removal or departure of the group owner.
	ErrOwnerProtected = apperrors.New("GROUP_OWNER_PROTECTED", "The group owner cannot be removed; delete the group instead", http.StatusBadRequest)

	// ErrInviteNotFound indicates no invite matches the provided code.
	ErrInviteNotFound = apperrors.New("INVITE_NOT_FOUND", "Invite link is not valid", http.StatusNotFound)
	// ErrInviteDeactivated indicates the invite was disabled by a group admin.
	ErrInviteDeactivated = apperrors.New("INVITE_DEACTIVATED", "Invite link has been deactivated", http.StatusBadRequest)
	// ErrInviteExpired indicates the invite's expiry has passed.
	ErrInviteExpired = apperrors.New("INVITE_EXPIRED", "Invite link has expired", http.StatusBadRequest)
	// ErrInviteExhausted indicates the invite reached its usage limit.
	ErrInviteExhausted = apperrors.New("INVITE_USES_EXCEEDED", "Invite link has reached its usage limit", http.StatusBadRequest)

	// ErrUsernameTaken signals a registration conflict on username.
	ErrUsernameTaken = apperrors.New("USERNAME_TAKEN", "Username is already in use", http.StatusConflict)
	// ErrEmailTaken signals a registration conflict on email.
	ErrEmailTaken = apperrors.New("EMAIL_TAKEN", "Email is already in use", http.StatusConflict)
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
