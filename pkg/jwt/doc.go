// Package jwt implements HMAC-SHA256 signed JSON Web Tokens with no external
// dependencies. It distinguishes expired tokens from malformed or forged ones
// so that callers can surface different messages for each, and provides
// request extractors for the Bearer header and cookie transports.
package jwt
