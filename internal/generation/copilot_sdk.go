package generation

//go:generate go tool mockgen -source copilot_sdk.go -destination copilot_sdk_mocks_test.go -package generation

import (
	"context"

	copilot "github.com/github/copilot-sdk/go"
)

// sdkSession is the part of [*copilot.Session] a CopilotGenerator uses.
type sdkSession interface {
	On(handler copilot.SessionEventHandler) func()
	SendAndWait(ctx context.Context, options copilot.MessageOptions) (*copilot.SessionEvent, error)
	SessionID() string
}

// sdkClient is the part of [*copilot.Client] a CopilotGenerator uses.
type sdkClient interface {
	Start(ctx context.Context) error
	CreateSession(ctx context.Context, config *copilot.SessionConfig) (sdkSession, error)
	Stop() error
}

func newSDKClient(clientOptions *copilot.ClientOptions) sdkClient {
	return &sdkClientAdapter{inner: copilot.NewClient(clientOptions)}
}

type sdkClientAdapter struct {
	inner *copilot.Client
}

func (a *sdkClientAdapter) Start(ctx context.Context) error {
	return a.inner.Start(ctx)
}

func (a *sdkClientAdapter) CreateSession(ctx context.Context, config *copilot.SessionConfig) (sdkSession, error) {
	sess, err := a.inner.CreateSession(ctx, config)
	if err != nil {
		return nil, err
	}
	return &sdkSessionAdapter{inner: sess}, nil
}

func (a *sdkClientAdapter) Stop() error {
	return a.inner.Stop()
}

// sdkSessionAdapter exposes the SessionID field as a method.
type sdkSessionAdapter struct {
	inner *copilot.Session
}

func (a *sdkSessionAdapter) On(handler copilot.SessionEventHandler) func() {
	return a.inner.On(handler)
}

func (a *sdkSessionAdapter) SendAndWait(ctx context.Context, options copilot.MessageOptions) (*copilot.SessionEvent, error) {
	return a.inner.SendAndWait(ctx, options)
}

func (a *sdkSessionAdapter) SessionID() string {
	return a.inner.SessionID
}
