// Package apiconnect wires the SplitzyTip services to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitzytip/pkg/api"
)

const (
	TipServiceName     = "splitzytip.v1.TipService"
	AuthServiceName    = "splitzytip.v1.AuthService"
	ProfileServiceName = "splitzytip.v1.ProfileService"
)

const (
	TipServiceComputeProcedure = "/" + TipServiceName + "/Compute"
	TipServiceResetProcedure   = "/" + TipServiceName + "/Reset"
	TipServicePresetsProcedure = "/" + TipServiceName + "/Presets"

	AuthServiceSignUpProcedure                = "/" + AuthServiceName + "/SignUp"
	AuthServiceSignInProcedure                = "/" + AuthServiceName + "/SignIn"
	AuthServiceSignInWithGoogleProcedure      = "/" + AuthServiceName + "/SignInWithGoogle"
	AuthServiceSignOutProcedure               = "/" + AuthServiceName + "/SignOut"
	AuthServiceSendEmailVerificationProcedure = "/" + AuthServiceName + "/SendEmailVerification"
	AuthServiceVerifyEmailProcedure           = "/" + AuthServiceName + "/VerifyEmail"
	AuthServiceSendPasswordResetProcedure     = "/" + AuthServiceName + "/SendPasswordReset"
	AuthServiceResetPasswordProcedure         = "/" + AuthServiceName + "/ResetPassword"

	ProfileServiceGetProfileProcedure    = "/" + ProfileServiceName + "/GetProfile"
	ProfileServiceUpdateProfileProcedure = "/" + ProfileServiceName + "/UpdateProfile"
	ProfileServiceDeleteProfileProcedure = "/" + ProfileServiceName + "/DeleteProfile"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = map[string]bool{
	AuthServiceSignUpProcedure:                true,
	AuthServiceSignInProcedure:                true,
	AuthServiceSignInWithGoogleProcedure:      true,
	AuthServiceSendEmailVerificationProcedure: true,
	AuthServiceVerifyEmailProcedure:           true,
	AuthServiceSendPasswordResetProcedure:     true,
	AuthServiceResetPasswordProcedure:         true,
}

// IsAPIPath reports whether an HTTP path belongs to one of the services.
func IsAPIPath(path string) bool {
	return strings.HasPrefix(path, "/splitzytip.v1.")
}

// TipServiceHandler is implemented by the calculator service.
type TipServiceHandler interface {
	Compute(context.Context, *connect.Request[api.ComputeRequest]) (*connect.Response[api.ComputeResponse], error)
	Reset(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ResetResponse], error)
	Presets(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.PresetsResponse], error)
}

// AuthServiceHandler is implemented by the identity service.
type AuthServiceHandler interface {
	SignUp(context.Context, *connect.Request[api.SignUpRequest]) (*connect.Response[api.SignUpResponse], error)
	SignIn(context.Context, *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error)
	SignInWithGoogle(context.Context, *connect.Request[api.SignInWithGoogleRequest]) (*connect.Response[api.SignInResponse], error)
	SignOut(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
	SendEmailVerification(context.Context, *connect.Request[api.SendEmailVerificationRequest]) (*connect.Response[emptypb.Empty], error)
	VerifyEmail(context.Context, *connect.Request[api.VerifyEmailRequest]) (*connect.Response[api.VerifyEmailResponse], error)
	SendPasswordReset(context.Context, *connect.Request[api.SendPasswordResetRequest]) (*connect.Response[emptypb.Empty], error)
	ResetPassword(context.Context, *connect.Request[api.ResetPasswordRequest]) (*connect.Response[emptypb.Empty], error)
}

// ProfileServiceHandler is implemented by the profile service.
type ProfileServiceHandler interface {
	GetProfile(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[api.ProfileResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.ProfileResponse], error)
	DeleteProfile(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error)
}

// route builds the service-level mux returned by each New*Handler.
func route(prefix string, handlers map[string]http.Handler) (string, http.Handler) {
	return prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{api.WithCodec()}, opts...)
}

// NewTipServiceHandler returns the path to mount the service on and its handler.
func NewTipServiceHandler(svc TipServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+TipServiceName+"/", map[string]http.Handler{
		TipServiceComputeProcedure: connect.NewUnaryHandler(TipServiceComputeProcedure, svc.Compute, opts...),
		TipServiceResetProcedure:   connect.NewUnaryHandler(TipServiceResetProcedure, svc.Reset, opts...),
		TipServicePresetsProcedure: connect.NewUnaryHandler(TipServicePresetsProcedure, svc.Presets, opts...),
	})
}

// NewAuthServiceHandler returns the path to mount the service on and its handler.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+AuthServiceName+"/", map[string]http.Handler{
		AuthServiceSignUpProcedure:                connect.NewUnaryHandler(AuthServiceSignUpProcedure, svc.SignUp, opts...),
		AuthServiceSignInProcedure:                connect.NewUnaryHandler(AuthServiceSignInProcedure, svc.SignIn, opts...),
		AuthServiceSignInWithGoogleProcedure:      connect.NewUnaryHandler(AuthServiceSignInWithGoogleProcedure, svc.SignInWithGoogle, opts...),
		AuthServiceSignOutProcedure:               connect.NewUnaryHandler(AuthServiceSignOutProcedure, svc.SignOut, opts...),
		AuthServiceSendEmailVerificationProcedure: connect.NewUnaryHandler(AuthServiceSendEmailVerificationProcedure, svc.SendEmailVerification, opts...),
		AuthServiceVerifyEmailProcedure:           connect.NewUnaryHandler(AuthServiceVerifyEmailProcedure, svc.VerifyEmail, opts...),
		AuthServiceSendPasswordResetProcedure:     connect.NewUnaryHandler(AuthServiceSendPasswordResetProcedure, svc.SendPasswordReset, opts...),
		AuthServiceResetPasswordProcedure:         connect.NewUnaryHandler(AuthServiceResetPasswordProcedure, svc.ResetPassword, opts...),
	})
}

// NewProfileServiceHandler returns the path to mount the service on and its handler.
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return route("/"+ProfileServiceName+"/", map[string]http.Handler{
		ProfileServiceGetProfileProcedure:    connect.NewUnaryHandler(ProfileServiceGetProfileProcedure, svc.GetProfile, opts...),
		ProfileServiceUpdateProfileProcedure: connect.NewUnaryHandler(ProfileServiceUpdateProfileProcedure, svc.UpdateProfile, opts...),
		ProfileServiceDeleteProfileProcedure: connect.NewUnaryHandler(ProfileServiceDeleteProfileProcedure, svc.DeleteProfile, opts...),
	})
}
