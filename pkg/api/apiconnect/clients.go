package apiconnect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/pkg/api"
)

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{api.WithCodec()}, opts...)
}

// TipServiceClient calls the calculator service.
type TipServiceClient struct {
	compute *connect.Client[api.ComputeRequest, api.ComputeResponse]
	reset   *connect.Client[emptypb.Empty, api.ResetResponse]
	presets *connect.Client[emptypb.Empty, api.PresetsResponse]
}

// NewTipServiceClient creates a client for the service at baseURL.
func NewTipServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TipServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &TipServiceClient{
		compute: connect.NewClient[api.ComputeRequest, api.ComputeResponse](httpClient, baseURL+TipServiceComputeProcedure, opts...),
		reset:   connect.NewClient[emptypb.Empty, api.ResetResponse](httpClient, baseURL+TipServiceResetProcedure, opts...),
		presets: connect.NewClient[emptypb.Empty, api.PresetsResponse](httpClient, baseURL+TipServicePresetsProcedure, opts...),
	}
}

func (c *TipServiceClient) Compute(ctx context.Context, req *connect.Request[api.ComputeRequest]) (*connect.Response[api.ComputeResponse], error) {
	return c.compute.CallUnary(ctx, req)
}

func (c *TipServiceClient) Reset(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ResetResponse], error) {
	return c.reset.CallUnary(ctx, req)
}

func (c *TipServiceClient) Presets(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.PresetsResponse], error) {
	return c.presets.CallUnary(ctx, req)
}

// AuthServiceClient calls the identity service.
type AuthServiceClient struct {
	signUp                *connect.Client[api.SignUpRequest, api.SignUpResponse]
	signIn                *connect.Client[api.SignInRequest, api.SignInResponse]
	signInWithGoogle      *connect.Client[api.SignInWithGoogleRequest, api.SignInResponse]
	signOut               *connect.Client[emptypb.Empty, emptypb.Empty]
	sendEmailVerification *connect.Client[api.SendEmailVerificationRequest, emptypb.Empty]
	verifyEmail           *connect.Client[api.VerifyEmailRequest, api.VerifyEmailResponse]
	sendPasswordReset     *connect.Client[api.SendPasswordResetRequest, emptypb.Empty]
	resetPassword         *connect.Client[api.ResetPasswordRequest, emptypb.Empty]
}

// NewAuthServiceClient creates a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		signUp:                connect.NewClient[api.SignUpRequest, api.SignUpResponse](httpClient, baseURL+AuthServiceSignUpProcedure, opts...),
		signIn:                connect.NewClient[api.SignInRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInProcedure, opts...),
		signInWithGoogle:      connect.NewClient[api.SignInWithGoogleRequest, api.SignInResponse](httpClient, baseURL+AuthServiceSignInWithGoogleProcedure, opts...),
		signOut:               connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+AuthServiceSignOutProcedure, opts...),
		sendEmailVerification: connect.NewClient[api.SendEmailVerificationRequest, emptypb.Empty](httpClient, baseURL+AuthServiceSendEmailVerificationProcedure, opts...),
		verifyEmail:           connect.NewClient[api.VerifyEmailRequest, api.VerifyEmailResponse](httpClient, baseURL+AuthServiceVerifyEmailProcedure, opts...),
		sendPasswordReset:     connect.NewClient[api.SendPasswordResetRequest, emptypb.Empty](httpClient, baseURL+AuthServiceSendPasswordResetProcedure, opts...),
		resetPassword:         connect.NewClient[api.ResetPasswordRequest, emptypb.Empty](httpClient, baseURL+AuthServiceResetPasswordProcedure, opts...),
	}
}

func (c *AuthServiceClient) SignUp(ctx context.Context, req *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error) {
	return c.signUp.CallUnary(ctx, req)
}

func (c *AuthServiceClient) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *AuthServiceClient) SignInWithGoogle(ctx context.Context, req *connect.Request[api.SignInWithGoogleRequest]) (*connect.Response[api.SignInResponse], error) {
	return c.signInWithGoogle.CallUnary(ctx, req)
}

func (c *AuthServiceClient) SignOut(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.signOut.CallUnary(ctx, req)
}

func (c *AuthServiceClient) SendEmailVerification(ctx context.Context, req *connect.Request[api.SendEmailVerificationRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.sendEmailVerification.CallUnary(ctx, req)
}

func (c *AuthServiceClient) VerifyEmail(ctx context.Context, req *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error) {
	return c.verifyEmail.CallUnary(ctx, req)
}

func (c *AuthServiceClient) SendPasswordReset(ctx context.Context, req *connect.Request[api.SendPasswordResetRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.sendPasswordReset.CallUnary(ctx, req)
}

func (c *AuthServiceClient) ResetPassword(ctx context.Context, req *connect.Request[api.ResetPasswordRequest]) (*connect.Response[emptypb.Empty], error) {
	return c.resetPassword.CallUnary(ctx, req)
}

// ProfileServiceClient calls the profile service.
type ProfileServiceClient struct {
	getProfile    *connect.Client[emptypb.Empty, api.ProfileResponse]
	updateProfile *connect.Client[api.UpdateProfileRequest, api.ProfileResponse]
	deleteProfile *connect.Client[emptypb.Empty, emptypb.Empty]
}

// NewProfileServiceClient creates a client for the service at baseURL.
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ProfileServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &ProfileServiceClient{
		getProfile:    connect.NewClient[emptypb.Empty, api.ProfileResponse](httpClient, baseURL+ProfileServiceGetProfileProcedure, opts...),
		updateProfile: connect.NewClient[api.UpdateProfileRequest, api.ProfileResponse](httpClient, baseURL+ProfileServiceUpdateProfileProcedure, opts...),
		deleteProfile: connect.NewClient[emptypb.Empty, emptypb.Empty](httpClient, baseURL+ProfileServiceDeleteProfileProcedure, opts...),
	}
}

func (c *ProfileServiceClient) GetProfile(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *ProfileServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *ProfileServiceClient) DeleteProfile(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	return c.deleteProfile.CallUnary(ctx, req)
}
