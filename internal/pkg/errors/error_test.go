package xerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorUnwrapsToKind(t *testing.T) {
	err := &APIError{StatusCode: 401, Message: "token expired", Kind: KindForStatus(401)}
	require.True(t, IsAuth(err))
	require.Equal(t, "token expired", Message(err))
	require.Equal(t, "upstream 401: token expired", err.Error())

	wrapped := fmt.Errorf("list agents: %w", &APIError{StatusCode: 500})
	require.ErrorIs(t, wrapped, ErrUpstream)
	require.Equal(t, DefaultMessage, Message(wrapped))
}

func TestKindForStatus(t *testing.T) {
	require.ErrorIs(t, KindForStatus(403), ErrUnauthorized)
	require.ErrorIs(t, KindForStatus(404), ErrNotFound)
	require.ErrorIs(t, KindForStatus(422), ErrInvalidInput)
	require.ErrorIs(t, KindForStatus(504), ErrTimeout)
	require.ErrorIs(t, KindForStatus(502), ErrUpstream)
}

func TestTransportClassification(t *testing.T) {
	require.ErrorIs(t, Transport(context.DeadlineExceeded), ErrTimeout)
	require.ErrorIs(t, Transport(errors.New("connection refused")), ErrNetwork)
	require.ErrorIs(t, Transport(context.Canceled), context.Canceled)
	require.True(t, IsNetwork(Transport(errors.New("dial tcp: no route"))))
	require.NoError(t, Transport(nil))
}
