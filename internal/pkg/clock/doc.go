// Package clock provides a tiny time abstraction.
//
// Business logic depends on Clocker instead of calling time.Now or
// time.AfterFunc directly, so tests can drive time with Fake.
package clock
