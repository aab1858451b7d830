package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskFieldRedactsSensitiveKeys(t *testing.T) {
	attr := MaskField("authorization", "Bearer super-secret")
	require.Equal(t, RedactedValue, attr.Value.String())

	attr = MaskField("reason", "invalid credentials")
	require.Equal(t, "invalid credentials", attr.Value.String())

	attr = MaskField("method", "wager_place")
	require.Equal(t, "wager_place", attr.Value.String())

	attr = MaskField("token", "")
	require.Equal(t, "", attr.Value.String())
}

func TestAllowlistStaysNarrow(t *testing.T) {
	for _, key := range RedactionAllowlist() {
		require.True(t, IsAllowlisted(key))
	}
	require.False(t, IsAllowlisted("authorization"))
	require.False(t, IsAllowlisted("signature"))
	require.Equal(t, RedactedValue, MaskValue("secret"))
	require.Equal(t, "", MaskValue(""))
}
