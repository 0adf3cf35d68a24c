// Package messaging publishes kiosk domain events to a broker.
//
// Usecases depend on Publisher only; the driver (NATS, NSQ, Kafka, Google
// Pub/Sub or the in-process memory driver) is picked from configuration.
// Events are fire-and-forget notifications for back-office consumers, so the
// kiosk never consumes.
package messaging
