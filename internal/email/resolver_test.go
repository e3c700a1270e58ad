package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIMAPServerKnownProvider(t *testing.T) {
	server, err := ResolveIMAPServer("someone@gmail.com")
	require.NoError(t, err)
	assert.Equal(t, "imap.gmail.com:993", server)

	server, err = ResolveIMAPServer("someone@Outlook.com")
	require.NoError(t, err)
	assert.Equal(t, "outlook.office365.com:993", server)
}

func TestResolveIMAPServerInvalidAddress(t *testing.T) {
	_, err := ResolveIMAPServer("not-an-address")
	assert.Error(t, err)
}
