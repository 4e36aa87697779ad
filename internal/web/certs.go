package web

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/opd-ai/chapterpress/internal/logging"
)

const devCertLifetime = 90 * 24 * time.Hour

// devCert describes the self-signed certificate served when TLS is enabled
// without a real certificate.
type devCert struct {
	DNSNames []string
	IPs      []net.IP
	Lifetime time.Duration
}

// devCertFor covers localhost plus the host of the listen address, if any.
func devCertFor(addr string) devCert {
	c := devCert{
		DNSNames: []string{"localhost"},
		IPs:      []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		Lifetime: devCertLifetime,
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" || host == "localhost" {
		return c
	}
	if ip := net.ParseIP(host); ip != nil {
		if !ip.IsLoopback() && !ip.IsUnspecified() {
			c.IPs = append(c.IPs, ip)
		}
		return c
	}
	c.DNSNames = append(c.DNSNames, host)
	return c
}

// ensureCertificates writes a self-signed pair for c when either file is
// missing. Existing files are left untouched.
func ensureCertificates(certFile, keyFile string, c devCert) error {
	if fileExists(certFile) && fileExists(keyFile) {
		return nil
	}
	logging.Info.Printf("Generating self-signed certificate %s for %v %v", certFile, c.DNSNames, c.IPs)

	certPEM, keyPEM, err := c.issue(time.Now())
	if err != nil {
		return fmt.Errorf("failed to generate certificates: %w", err)
	}
	if err := writeSecret(certFile, certPEM, 0o644); err != nil {
		return err
	}
	return writeSecret(keyFile, keyPEM, 0o600)
}

// issue returns the PEM encoded certificate and PKCS#8 key.
func (c devCert) issue(now time.Time) (certPEM, keyPEM []byte, err error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
	if err != nil {
		return nil, nil, err
	}

	tmpl := &x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{CommonName: "chapterpress dev"},
		NotBefore:    now.Add(-time.Minute),
		NotAfter:     now.Add(c.Lifetime),
		// ECDSA keys sign, they never encipher.
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              c.DNSNames,
		IPAddresses:           c.IPs,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	pkcs8, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, nil, err
	}

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8})
	return certPEM, keyPEM, nil
}

func writeSecret(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
