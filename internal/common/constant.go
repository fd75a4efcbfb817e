package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// OTPLength is the number of digits in a one-time passcode.
const OTPLength = 6
