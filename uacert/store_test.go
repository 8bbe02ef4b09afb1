package uacert

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func selfSignedCert(t *testing.T, commonName string) *x509.Certificate {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: commonName},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(24 * time.Hour),
	}
	raw, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	cert, err := x509.ParseCertificate(raw)
	require.NoError(t, err)
	return cert
}

func TestStoreOpenCreatesFiveDirectories(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	for _, dir := range []string{s.TrustedDir(), s.RejectedDir(), s.TrustedCRLDir(), s.IssuerCertDir(), s.IssuerCRLDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestStoreTrustAndScan(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	cert := selfSignedCert(t, "trusted-peer")

	require.NoError(t, s.Trust("peer.der", cert))
	ok, err := s.IsTrusted(cert)
	require.NoError(t, err)
	require.True(t, ok)

	entries, err := s.ScanTrusted()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "trusted-peer", entries[0].Cert.Subject.CommonName)
}

func TestStoreRejectThenPromoteToTrusted(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	cert := selfSignedCert(t, "quarantined-peer")

	require.NoError(t, s.Reject("peer.der", cert))
	rejected, err := s.ScanRejected()
	require.NoError(t, err)
	require.Len(t, rejected, 1)

	require.NoError(t, s.MoveToTrusted("peer.der"))
	ok, err := s.IsTrusted(cert)
	require.NoError(t, err)
	require.True(t, ok)

	rejected, err = s.ScanRejected()
	require.NoError(t, err)
	require.Empty(t, rejected)
}
