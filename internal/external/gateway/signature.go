package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "Paymongo-Signature"

// Verifier checks webhook signatures of the form t=<unix>,te=<hex>,li=<hex>.
// The HMAC-SHA256 of "<t>.<payload>" keyed by the webhook secret must match
// li in live mode and te in test mode.
type Verifier struct {
	secret    []byte
	liveMode  bool
	tolerance time.Duration
	now       func() time.Time
}

func NewVerifier(secret string, liveMode bool, tolerance time.Duration) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		liveMode:  liveMode,
		tolerance: tolerance,
		now:       time.Now,
	}
}

func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

func (v *Verifier) Verify(payload []byte, header string) error {
	ts, testSig, liveSig, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	if v.tolerance > 0 {
		signedAt := time.Unix(ts, 0)
		if v.now().Sub(signedAt) > v.tolerance {
			return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
		}
	}

	want := testSig
	if v.liveMode {
		want = liveSig
	}
	got, err := hex.DecodeString(want)
	if err != nil || len(got) == 0 {
		return fmt.Errorf("%w: missing signature for mode", ErrInvalidSignature)
	}

	if !hmac.Equal(got, Sign(v.secret, ts, payload)) {
		return ErrInvalidSignature
	}
	return nil
}

// Valid is the boolean form of Verify.
func (v *Verifier) Valid(payload []byte, header string) bool {
	return v.Verify(payload, header) == nil
}

// Sign computes the raw HMAC for a payload signed at ts.
func Sign(secret []byte, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignatureHeaderValue builds a header value, used by tests and local tooling.
func SignatureHeaderValue(secret []byte, ts int64, payload []byte, liveMode bool) string {
	sig := hex.EncodeToString(Sign(secret, ts, payload))
	if liveMode {
		return fmt.Sprintf("t=%d,te=,li=%s", ts, sig)
	}
	return fmt.Sprintf("t=%d,te=%s,li=", ts, sig)
}

func parseSignatureHeader(header string) (ts int64, testSig, liveSig string, err error) {
	if header == "" {
		return 0, "", "", fmt.Errorf("%w: header missing", ErrInvalidSignature)
	}

	var haveTS bool
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err = strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, "", "", fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			haveTS = true
		case "te":
			testSig = val
		case "li":
			liveSig = val
		}
	}

	if !haveTS {
		return 0, "", "", fmt.Errorf("%w: timestamp missing", ErrInvalidSignature)
	}
	return ts, testSig, liveSig, nil
}
