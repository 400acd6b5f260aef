package security_test

import (
	"testing"

	"cyber-incident-desk/pkg/security"

	"github.com/m-mizutani/gt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plaintext := range []string{"STU-2024-1187", "a", "", "идентификатор"} {
		ct, err := security.EncryptString(plaintext)
		gt.NoError(t, err)
		gt.NotEqual(t, ct, plaintext)

		pt, err := security.DecryptString(ct)
		gt.NoError(t, err)
		gt.Equal(t, pt, plaintext)
	}
}

func TestEncryptProducesFreshCiphertext(t *testing.T) {
	a, err := security.EncryptString("STU-2024-1187")
	gt.NoError(t, err)
	b, err := security.EncryptString("STU-2024-1187")
	gt.NoError(t, err)
	gt.NotEqual(t, a, b)
}

func TestDecryptRejectsGarbage(t *testing.T) {
	_, err := security.DecryptString("not-base64!!")
	gt.Error(t, err)

	_, err = security.DecryptString("c2hvcnQ=")
	gt.Error(t, err)
}
