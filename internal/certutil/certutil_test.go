package certutil

import (
	"crypto/tls"
	"crypto/x509"
	"testing"
)

func TestGenerateSelfSigned(t *testing.T) {
	cert, err := GenerateSelfSigned("bsend-test")
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}

	if len(cert.Certificate) != 1 {
		t.Fatalf("Certificate chain length = %d, want 1", len(cert.Certificate))
	}

	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		t.Fatalf("ParseCertificate() error = %v", err)
	}

	if parsed.Subject.CommonName != "bsend-test" {
		t.Errorf("CommonName = %q, want %q", parsed.Subject.CommonName, "bsend-test")
	}

	if err := parsed.VerifyHostname("localhost"); err != nil {
		t.Errorf("VerifyHostname(localhost) error = %v", err)
	}
}

func TestGenerateSelfSignedUsableForTLS(t *testing.T) {
	cert, err := GenerateSelfSigned("bsend-test")
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}

	hello := &tls.ClientHelloInfo{
		ServerName:        "localhost",
		SupportedVersions: []uint16{tls.VersionTLS13},
		SignatureSchemes:  []tls.SignatureScheme{tls.ECDSAWithP256AndSHA256},
	}
	if err := hello.SupportsCertificate(&cert); err != nil {
		t.Errorf("SupportsCertificate() error = %v", err)
	}
}

func TestGenerateSelfSignedDistinctKeys(t *testing.T) {
	a, err := GenerateSelfSigned("bsend-test")
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}
	b, err := GenerateSelfSigned("bsend-test")
	if err != nil {
		t.Fatalf("GenerateSelfSigned() error = %v", err)
	}

	if string(a.Certificate[0]) == string(b.Certificate[0]) {
		t.Error("two calls to GenerateSelfSigned produced identical certificates")
	}
}
