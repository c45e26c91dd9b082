package storage

import (
	"context"
	stderrors "errors"
	"net"
	"net/textproto"
	"os"
	"strings"

	"github.com/aws/smithy-go"

	apperrors "github.com/mitlibraries/carbon/errors"
)

var authAPICodes = map[string]bool{
	"AccessDenied":          true,
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"ExpiredToken":          true,
}

var authPatterns = []string{
	"unable to authenticate",
	"permission denied",
	"login incorrect",
	"authentication failed",
}

var connectionPatterns = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"no route to host",
	"broken pipe",
	"handshake failed",
}

// FromTransfer converts a provider error into a transfer AppError:
// TRANSFER_AUTH, TRANSFER_CONNECTION, TRANSFER_TIMEOUT or TRANSFER_FAILED.
// AppErrors pass through unchanged.
func FromTransfer(err error, provider string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	switch {
	case isTimeout(err):
		return apperrors.TransferTimeout(provider, err)
	case isAuth(err):
		return apperrors.TransferAuth(provider, err)
	case isConnection(err):
		return apperrors.TransferConnection(provider, err)
	}
	return apperrors.TransferFailed(provider, err)
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "i/o timeout")
}

func isAuth(err error) bool {
	// FTP 530: not logged in.
	var tpErr *textproto.Error
	if stderrors.As(err, &tpErr) && tpErr.Code == 530 {
		return true
	}
	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) && authAPICodes[apiErr.ErrorCode()] {
		return true
	}
	return containsAny(err, authPatterns)
}

func isConnection(err error) bool {
	var opErr *net.OpError
	if stderrors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	if stderrors.As(err, &dnsErr) {
		return true
	}
	return containsAny(err, connectionPatterns)
}

func containsAny(err error, patterns []string) bool {
	s := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
