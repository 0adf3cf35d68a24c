// Package jwt issues and verifies the HS512 access tokens the sandbox
// backend hands out on login.
package jwt
