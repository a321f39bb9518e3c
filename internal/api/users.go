package api

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pscheid92/forumclient/internal/domain"
	"github.com/pscheid92/forumclient/internal/notify"
	apperrors "github.com/pscheid92/forumclient/internal/platform/errors"
	"github.com/pscheid92/forumclient/internal/transport"
)

const (
	msgEmailRequired      = "email is required"
	msgFetchUserFailed    = "failed to fetch user info"
	msgRegistered         = "registration successful"
	msgRegisterFailed     = "registration failed"
	msgUpdated            = "profile updated"
	msgUpdateFailed       = "update failed"
	msgNotImage           = "please choose an image file"
	msgAvatarUploadFailed = "avatar upload failed"
	msgLoggedOut          = "logged out"
	msgUserNotFound       = "no user with that email"

	avatarField = "avatar"
	sniffLen    = 512
)

// Users wraps the user endpoints and keeps the session in step with them.
type Users struct {
	client   Requester
	session  SessionStore
	notifier Notifier
}

func NewUsers(client Requester, session SessionStore, notifier Notifier) *Users {
	return &Users{client: client, session: session, notifier: notifier}
}

// GetUserByEmail looks a user up by email. An empty email fails with domain.ErrEmailRequired before any request.
func (u *Users) GetUserByEmail(ctx context.Context, email string) (domain.GetUserResponse, error) {
	if strings.TrimSpace(email) == "" {
		u.notifier.Notify(notify.LevelError, msgEmailRequired)
		return domain.GetUserResponse{}, domain.ErrEmailRequired
	}

	var resp domain.GetUserResponse
	if err := u.client.Get(ctx, "/users", url.Values{"email": {email}}, &resp); err != nil {
		u.notifier.Notify(notify.LevelError, msgFetchUserFailed)
		return domain.GetUserResponse{}, fmt.Errorf("get user by email: %w", err)
	}
	return resp, nil
}

// Login starts a session for the user registered under email.
func (u *Users) Login(ctx context.Context, email string) (domain.User, error) {
	defer u.session.BeginLoading()()

	resp, err := u.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	if !resp.Success {
		msg := orDefault(resp.Error, msgFetchUserFailed)
		u.notifier.Notify(notify.LevelError, msg)
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrRejected, msg)
	}
	if resp.Data == nil {
		u.notifier.Notify(notify.LevelError, msgUserNotFound)
		return domain.User{}, domain.ErrUserNotFound
	}

	u.session.SetUser(ctx, *resp.Data)
	u.notifier.Notify(notify.LevelSuccess, "welcome back, "+resp.Data.DisplayName())
	return *resp.Data, nil
}

// Register creates an account and logs it in. When the form has no password one is generated and returned so it
// can be shown to the user.
func (u *Users) Register(ctx context.Context, reg domain.Registration) (domain.RegisterResponse, string, error) {
	if err := domain.ValidateRegistration(reg); err != nil {
		u.notifier.Notify(notify.LevelError, apperrors.AsStructuredError(err).Message)
		return domain.RegisterResponse{}, "", err
	}

	var generated string
	if reg.Password == "" {
		pw, err := domain.GeneratePassword()
		if err != nil {
			u.notifier.Notify(notify.LevelError, msgRegisterFailed)
			return domain.RegisterResponse{}, "", err
		}
		reg.Password, generated = pw, pw
	}

	defer u.session.BeginLoading()()

	var resp domain.RegisterResponse
	if err := u.client.Post(ctx, "/users/new", nil, reg, &resp); err != nil {
		u.notifier.Notify(notify.LevelError, orDefault(apperrors.ServerMessage(err), msgRegisterFailed))
		return domain.RegisterResponse{}, "", fmt.Errorf("register: %w", err)
	}
	if !resp.Success {
		msg := orDefault(resp.Error, msgRegisterFailed)
		u.notifier.Notify(notify.LevelError, msg)
		return resp, "", fmt.Errorf("register: %w: %s", domain.ErrRejected, msg)
	}

	u.session.SetUser(ctx, resp.Data)
	u.notifier.Notify(notify.LevelSuccess, msgRegistered)
	slog.InfoContext(ctx, "User registered", "user_id", resp.Data.ID)
	return resp, generated, nil
}

// UpdateUser edits the profile of userID. A success:false answer is reported through a toast and returned without
// an error; the session keeps its current user in that case.
func (u *Users) UpdateUser(ctx context.Context, userID string, patch domain.UserPatch) (domain.UpdateUserResponse, error) {
	if err := domain.ValidatePatch(patch); err != nil {
		u.notifier.Notify(notify.LevelError, apperrors.AsStructuredError(err).Message)
		return domain.UpdateUserResponse{}, err
	}

	defer u.session.BeginLoading()()
	return u.updateUser(ctx, userID, patch)
}

// updateUser sends a validated patch. The caller owns the loading scope.
func (u *Users) updateUser(ctx context.Context, userID string, patch domain.UserPatch) (domain.UpdateUserResponse, error) {
	var resp domain.UpdateUserResponse
	if err := u.client.Post(ctx, "/users/edit/", url.Values{"userId": {userID}}, patch, &resp); err != nil {
		u.notifier.Notify(notify.LevelError, orDefault(apperrors.ServerMessage(err), msgUpdateFailed))
		return domain.UpdateUserResponse{}, fmt.Errorf("update user: %w", err)
	}

	if !resp.Success {
		u.notifier.Notify(notify.LevelError, orDefault(resp.Error, msgUpdateFailed))
		return resp, nil
	}

	u.session.SetUser(ctx, resp.Data)
	u.notifier.Notify(notify.LevelSuccess, msgUpdated)
	return resp, nil
}

// UpdateAvatar uploads an image and stores the returned address on the profile. An empty contentType is sniffed
// from the content. The upload and the profile update share one loading scope.
func (u *Users) UpdateAvatar(ctx context.Context, userID, filename, contentType string, content io.Reader) (domain.UpdateUserResponse, error) {
	r := bufio.NewReaderSize(content, sniffLen)
	if contentType == "" {
		head, err := r.Peek(sniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			u.notifier.Notify(notify.LevelError, msgAvatarUploadFailed)
			return domain.UpdateUserResponse{}, fmt.Errorf("read avatar: %w", err)
		}
		contentType = http.DetectContentType(head)
	}
	if !strings.HasPrefix(contentType, "image/") {
		u.notifier.Notify(notify.LevelWarning, msgNotImage)
		return domain.UpdateUserResponse{}, domain.ErrNotImage
	}

	defer u.session.BeginLoading()()

	avatarURL, resp, err := u.uploadAvatar(ctx, userID, transport.FilePart{
		Field:       avatarField,
		Filename:    filename,
		ContentType: contentType,
		Content:     r,
	})
	if err != nil || !resp.Success {
		return resp, err
	}

	patch := domain.UserPatch{Avatar: &avatarURL}
	if err := domain.ValidatePatch(patch); err != nil {
		u.notifier.Notify(notify.LevelError, apperrors.AsStructuredError(err).Message)
		return domain.UpdateUserResponse{}, err
	}
	return u.updateUser(ctx, userID, patch)
}

func (u *Users) uploadAvatar(ctx context.Context, userID string, file transport.FilePart) (string, domain.UpdateUserResponse, error) {
	var resp domain.UpdateAvatarResponse
	if err := u.client.PostMultipart(ctx, "/users/avatar/", url.Values{"userId": {userID}}, file, &resp); err != nil {
		u.notifier.Notify(notify.LevelError, orDefault(apperrors.ServerMessage(err), msgAvatarUploadFailed))
		return "", domain.UpdateUserResponse{}, fmt.Errorf("upload avatar: %w", err)
	}
	if !resp.Success {
		msg := orDefault(resp.Error, msgAvatarUploadFailed)
		u.notifier.Notify(notify.LevelError, msg)
		return "", domain.Failed[domain.User](msg), nil
	}
	return resp.Data, domain.UpdateUserResponse{Success: true}, nil
}

// Logout ends the session.
func (u *Users) Logout(ctx context.Context) {
	u.session.ClearUser(ctx)
	u.notifier.Notify(notify.LevelInfo, msgLoggedOut)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
