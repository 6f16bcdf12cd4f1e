// Package mail sends transactional email. The application uses it to deliver
// password reset codes. SMTPMailer talks to a real relay; LogMailer writes
// messages to the structured log for local development.
package mail
