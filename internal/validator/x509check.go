package validator

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"sort"
	"time"

	dserrors "github.com/mrferris/genesis/internal/errors"
	"github.com/mrferris/genesis/internal/plan"
	"github.com/mrferris/genesis/internal/store"
)

var defaultLeafUsage = []string{"server_auth", "client_auth"}
var defaultCAUsage = []string{"server_auth", "client_auth", "crl_sign", "key_cert_sign"}

func checkX509(report *Report, p *plan.Plan, snapshot store.Snapshot) {
	keys := snapshot[p.Path]

	cert, err := parseCertificatePEM(keys["certificate"])
	if err != nil {
		report.add("parse-certificate", dserrors.OutcomeError, err.Error())
		return
	}

	checkCommonName(report, p, cert)
	checkSANs(report, p, cert)
	checkCAFlag(report, p, cert)
	checkSelfSigned(report, p, cert)
	if p.SelfSigned == plan.SelfSignedNone && p.SignedBy != "" {
		checkChainSignage(report, p, cert, snapshot)
	}
	checkModulus(report, cert, keys["key"])
	checkTTL(report, cert)
	checkKeyUsage(report, p, cert)
}

func parseCertificatePEM(data string) (*x509.Certificate, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, fmt.Errorf("certificate is not valid PEM")
	}
	return x509.ParseCertificate(block.Bytes)
}

func checkCommonName(report *Report, p *plan.Plan, cert *x509.Certificate) {
	if len(p.Names) == 0 {
		return
	}
	if cert.Subject.CommonName != p.Names[0] {
		report.add("common-name", dserrors.OutcomeError,
			fmt.Sprintf("CN %q does not match declared name %q", cert.Subject.CommonName, p.Names[0]))
		return
	}
	report.add("common-name", dserrors.OutcomeOK, "")
}

func checkSANs(report *Report, p *plan.Plan, cert *x509.Certificate) {
	if len(p.Names) == 0 {
		return
	}

	declared := sortedCopy(p.Names)
	actual := sortedCopy(cert.DNSNames)

	if !equalStrings(declared, actual) {
		report.add("subject-alt-names", dserrors.OutcomeError,
			fmt.Sprintf("SAN set %v does not match declared names %v", actual, declared))
		return
	}
	report.add("subject-alt-names", dserrors.OutcomeOK, "")
}

func checkCAFlag(report *Report, p *plan.Plan, cert *x509.Certificate) {
	if cert.IsCA != p.IsCA {
		report.add("ca-flag", dserrors.OutcomeError,
			fmt.Sprintf("basic-constraints CA=%v does not match declared is_ca=%v", cert.IsCA, p.IsCA))
		return
	}
	report.add("ca-flag", dserrors.OutcomeOK, "")
}

func checkSelfSigned(report *Report, p *plan.Plan, cert *x509.Certificate) {
	if p.SelfSigned == plan.SelfSignedNone {
		return
	}

	selfSigned := bytes.Equal(cert.AuthorityKeyId, cert.SubjectKeyId) && len(cert.SubjectKeyId) > 0
	if !selfSigned {
		selfSigned = cert.Issuer.String() == cert.Subject.String()
	}

	if !selfSigned {
		report.add("self-signed", dserrors.OutcomeError, "certificate is declared self-signed but issuer does not match subject")
		return
	}
	report.add("self-signed", dserrors.OutcomeOK, "")
}

func checkChainSignage(report *Report, p *plan.Plan, cert *x509.Certificate, snapshot store.Snapshot) {
	signerKeys, ok := snapshot[p.SignedBy]
	if !ok {
		report.add("chain-signage", dserrors.OutcomeWarn, "signing CA not present in export; could not verify chain locally")
		return
	}

	signerCert, err := parseCertificatePEM(signerKeys["certificate"])
	if err != nil {
		report.add("chain-signage", dserrors.OutcomeWarn, "signing CA certificate could not be parsed; could not verify chain locally")
		return
	}

	if len(cert.AuthorityKeyId) > 0 && len(signerCert.SubjectKeyId) > 0 {
		if bytes.Equal(cert.AuthorityKeyId, signerCert.SubjectKeyId) {
			report.add("chain-signage", dserrors.OutcomeOK, "")
			return
		}
		report.add("chain-signage", dserrors.OutcomeError, "authority key id does not match signing CA's subject key id")
		return
	}

	if err := cert.CheckSignatureFrom(signerCert); err != nil {
		report.add("chain-signage", dserrors.OutcomeError, "signature verification against signing CA failed: "+err.Error())
		return
	}
	report.add("chain-signage", dserrors.OutcomeOK, "")
}

func checkModulus(report *Report, cert *x509.Certificate, keyPEM string) {
	certKey, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return
	}

	privateKey, err := parseRSAPrivateKeyPEM(keyPEM)
	if err != nil {
		report.add("modulus-agreement", dserrors.OutcomeError, err.Error())
		return
	}

	if certKey.N.Cmp(privateKey.N) != 0 {
		report.add("modulus-agreement", dserrors.OutcomeError, "certificate modulus does not match private key modulus")
		return
	}
	report.add("modulus-agreement", dserrors.OutcomeOK, "")
}

func checkTTL(report *Report, cert *x509.Certificate) {
	now := time.Now()

	if now.Before(cert.NotBefore) {
		report.add("ttl", dserrors.OutcomeError, "certificate is not yet valid")
		return
	}

	remaining := cert.NotAfter.Sub(now)
	days := int(remaining.Hours() / 24)

	switch {
	case remaining <= 0:
		report.add("ttl", dserrors.OutcomeError, "certificate has expired")
	case days <= 30:
		report.add("ttl", dserrors.OutcomeWarn, fmt.Sprintf("%d day(s) remaining", days))
	default:
		report.add("ttl", dserrors.OutcomeOK, fmt.Sprintf("%d day(s) remaining", days))
	}
}

func checkKeyUsage(report *Report, p *plan.Plan, cert *x509.Certificate) {
	declared := p.Usage
	if len(declared) == 0 {
		if p.IsCA {
			declared = defaultCAUsage
		} else {
			declared = defaultLeafUsage
		}
	}

	var missing []string
	for _, usage := range declared {
		if !hasUsage(cert, usage) {
			missing = append(missing, usage)
		}
	}

	if len(missing) > 0 {
		report.add("key-usage", dserrors.OutcomeError, fmt.Sprintf("missing usage(s): %v", missing))
		return
	}
	report.add("key-usage", dserrors.OutcomeOK, "")
}

func hasUsage(cert *x509.Certificate, name string) bool {
	switch name {
	case "digital_signature":
		return cert.KeyUsage&x509.KeyUsageDigitalSignature != 0
	case "non_repudiation", "content_commitment":
		return cert.KeyUsage&x509.KeyUsageContentCommitment != 0
	case "key_encipherment":
		return cert.KeyUsage&x509.KeyUsageKeyEncipherment != 0
	case "data_encipherment":
		return cert.KeyUsage&x509.KeyUsageDataEncipherment != 0
	case "key_agreement":
		return cert.KeyUsage&x509.KeyUsageKeyAgreement != 0
	case "key_cert_sign":
		return cert.KeyUsage&x509.KeyUsageCertSign != 0
	case "crl_sign":
		return cert.KeyUsage&x509.KeyUsageCRLSign != 0
	case "encipher_only":
		return cert.KeyUsage&x509.KeyUsageEncipherOnly != 0
	case "decipher_only":
		return cert.KeyUsage&x509.KeyUsageDecipherOnly != 0
	case "client_auth":
		return hasExtKeyUsage(cert, x509.ExtKeyUsageClientAuth)
	case "server_auth":
		return hasExtKeyUsage(cert, x509.ExtKeyUsageServerAuth)
	case "code_signing":
		return hasExtKeyUsage(cert, x509.ExtKeyUsageCodeSigning)
	case "email_protection":
		return hasExtKeyUsage(cert, x509.ExtKeyUsageEmailProtection)
	case "timestamping":
		return hasExtKeyUsage(cert, x509.ExtKeyUsageTimeStamping)
	default:
		return false
	}
}

func hasExtKeyUsage(cert *x509.Certificate, usage x509.ExtKeyUsage) bool {
	for _, u := range cert.ExtKeyUsage {
		if u == usage {
			return true
		}
	}
	return false
}

func sortedCopy(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
