package service

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/internal/storage"
	"github.com/mmynk/splitzytip/pkg/api"
)

func strPtr(s string) *string { return &s }

func TestProfileService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.signedInUser(t, "Ada Lovelace", "ada@example.com")

	t.Run("GetProfile", func(t *testing.T) {
		resp, err := env.profiles.GetProfile(ctx, authed(token, &emptypb.Empty{}))
		require.NoError(t, err)
		p := resp.Msg.Profile
		require.Equal(t, "ada@example.com", p.Email)
		require.Equal(t, "AL", p.Initials)
		require.Empty(t, p.PhotoURL)
		require.False(t, p.GoogleLinked)
	})

	t.Run("GetProfile requires a session", func(t *testing.T) {
		_, err := env.profiles.GetProfile(ctx, connect.NewRequest(&emptypb.Empty{}))
		requireCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("UpdateProfile changes only the fields sent", func(t *testing.T) {
		resp, err := env.profiles.UpdateProfile(ctx, authed(token, &api.UpdateProfileRequest{
			PhotoURL: strPtr("https://example.com/ada.png"),
		}))
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", resp.Msg.Profile.Name)
		require.Equal(t, "https://example.com/ada.png", resp.Msg.Profile.PhotoURL)

		resp, err = env.profiles.UpdateProfile(ctx, authed(token, &api.UpdateProfileRequest{
			Name: strPtr("  Augusta King "),
		}))
		require.NoError(t, err)
		require.Equal(t, "Augusta King", resp.Msg.Profile.Name)
		require.Equal(t, "AK", resp.Msg.Profile.Initials)
		require.Equal(t, "https://example.com/ada.png", resp.Msg.Profile.PhotoURL)

		got, err := env.profiles.GetProfile(ctx, authed(token, &emptypb.Empty{}))
		require.NoError(t, err)
		require.Equal(t, resp.Msg.Profile.Name, got.Msg.Profile.Name)
	})

	t.Run("UpdateProfile clears the photo", func(t *testing.T) {
		resp, err := env.profiles.UpdateProfile(ctx, authed(token, &api.UpdateProfileRequest{PhotoURL: strPtr("")}))
		require.NoError(t, err)
		require.Empty(t, resp.Msg.Profile.PhotoURL)
	})

	t.Run("UpdateProfile validation", func(t *testing.T) {
		_, err := env.profiles.UpdateProfile(ctx, authed(token, &api.UpdateProfileRequest{Name: strPtr("   ")}))
		requireCode(t, err, connect.CodeInvalidArgument)

		_, err = env.profiles.UpdateProfile(ctx, authed(token, &api.UpdateProfileRequest{PhotoURL: strPtr("not a url")}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestDeleteProfile(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.signedInUser(t, "Ada Lovelace", "ada@example.com")

	second, err := env.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: "ada@example.com", Password: testPassword}))
	require.NoError(t, err)
	otherSession := second.Msg.Token

	profile, err := env.profiles.GetProfile(ctx, authed(token, &emptypb.Empty{}))
	require.NoError(t, err)
	userID := profile.Msg.Profile.ID

	// Leave an outstanding reset link behind.
	_, err = env.auth.SendPasswordReset(ctx, connect.NewRequest(&api.SendPasswordResetRequest{Email: "ada@example.com"}))
	require.NoError(t, err)
	resetToken := env.tokenFromMail(t, "ada@example.com")

	_, err = env.profiles.DeleteProfile(ctx, authed(token, &emptypb.Empty{}))
	require.NoError(t, err)

	_, err = env.store.GetUserByID(ctx, userID)
	require.True(t, errors.Is(err, storage.ErrNotFound), "user should be gone, got %v", err)

	_, err = env.profiles.GetProfile(ctx, authed(token, &emptypb.Empty{}))
	requireCode(t, err, connect.CodeUnauthenticated)

	// Sessions on other devices die with the account.
	_, err = env.tips.Compute(ctx, authed(otherSession, &api.ComputeRequest{
		TipInput: api.TipInput{BillAmount: "100", PeopleCount: "2", TipSelection: "18"},
	}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.SignIn(ctx, connect.NewRequest(&api.SignInRequest{Email: "ada@example.com", Password: testPassword}))
	requireCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.ResetPassword(ctx, connect.NewRequest(&api.ResetPasswordRequest{
		Token: resetToken, NewPassword: "brand new pass", RepeatPassword: "brand new pass",
	}))
	requireCode(t, err, connect.CodeInvalidArgument)

	t.Run("email can be registered again", func(t *testing.T) {
		p := env.signUp(t, "Ada Again", "ada@example.com")
		require.NotEqual(t, userID, p.ID)
	})
}
