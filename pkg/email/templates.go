package email

import (
	"fmt"
)

// CounselingEmailData carries the fields the counseling notification
// templates interpolate.
type CounselingEmailData struct {
	PatientName       string
	PatientEmail      string
	PsychologistName  string
	PsychologistEmail string
	Date              string // "2006-01-02"
	TimeRange         string // "09:00 - 10:00"
	Note              string
	AppName           string
}

func (d CounselingEmailData) appName() string {
	if d.AppName == "" {
		return "MentalWell"
	}
	return d.AppName
}

// BuildPsychologistNewCounselingEmail notifies a psychologist that a
// scheduled session has been confirmed.
func BuildPsychologistNewCounselingEmail(d CounselingEmailData) Message {
	subject := fmt.Sprintf("New counseling session on %s", d.Date)

	textBody := fmt.Sprintf(`Hi %s,

A new counseling session with %s has been confirmed.

Date: %s
Time: %s

Please make sure you are available at the scheduled time.

Thanks,
The %s Team`,
		d.PsychologistName, d.PatientName, d.Date, d.TimeRange, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>A new counseling session with <strong>%s</strong> has been confirmed.</p>
    <p>Date: <strong>%s</strong><br>Time: <strong>%s</strong></p>
    <p>Please make sure you are available at the scheduled time.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		d.PsychologistName, d.PatientName, d.Date, d.TimeRange, d.appName())

	return Message{
		To:       []string{d.PsychologistEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildPsychologistChatNowEmail notifies a psychologist that an on-demand
// session starts immediately.
func BuildPsychologistChatNowEmail(d CounselingEmailData) Message {
	subject := "A patient is waiting to chat with you now"

	textBody := fmt.Sprintf(`Hi %s,

%s has booked an on-demand session and is waiting for you.

Please open the app and start the conversation as soon as possible.

Thanks,
The %s Team`,
		d.PsychologistName, d.PatientName, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p><strong>%s</strong> has booked an on-demand session and is waiting for you.</p>
    <p>Please open the app and start the conversation as soon as possible.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		d.PsychologistName, d.PatientName, d.appName())

	return Message{
		To:       []string{d.PsychologistEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildPatientConfirmedScheduledEmail tells a patient their scheduled
// session payment was approved.
func BuildPatientConfirmedScheduledEmail(d CounselingEmailData) Message {
	subject := "Your counseling session is confirmed"

	textBody := fmt.Sprintf(`Hi %s,

Your payment has been approved and your counseling session with %s is confirmed.

Date: %s
Time: %s

See you there,
The %s Team`,
		d.PatientName, d.PsychologistName, d.Date, d.TimeRange, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your payment has been approved and your counseling session with <strong>%s</strong> is confirmed.</p>
    <p>Date: <strong>%s</strong><br>Time: <strong>%s</strong></p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">See you there,<br>The %s Team</p>
</body>
</html>`,
		d.PatientName, d.PsychologistName, d.Date, d.TimeRange, d.appName())

	return Message{
		To:       []string{d.PatientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildPatientConfirmedRealtimeEmail tells a patient their on-demand session
// payment was approved and the session starts now.
func BuildPatientConfirmedRealtimeEmail(d CounselingEmailData) Message {
	subject := "Your session starts now"

	textBody := fmt.Sprintf(`Hi %s,

Your payment has been approved. %s is ready to chat with you now.

Open the app to start your session.

Thanks,
The %s Team`,
		d.PatientName, d.PsychologistName, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your payment has been approved. <strong>%s</strong> is ready to chat with you now.</p>
    <p>Open the app to start your session.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		d.PatientName, d.PsychologistName, d.appName())

	return Message{
		To:       []string{d.PatientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildPatientRejectedEmail tells a patient their payment proof was rejected.
func BuildPatientRejectedEmail(d CounselingEmailData) Message {
	note := d.Note
	if note == "" {
		note = "Your payment proof did not match or could not be verified."
	}

	subject := "Your payment could not be verified"

	textBody := fmt.Sprintf(`Hi %s,

Unfortunately we could not verify your payment.

Reason: %s

Please book again with a valid payment proof.

Thanks,
The %s Team`,
		d.PatientName, note, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #dc2626;">Hi %s,</h2>
    <p>Unfortunately we could not verify your payment.</p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>
    <p>Please book again with a valid payment proof.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		d.PatientName, note, d.appName())

	return Message{
		To:       []string{d.PatientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildPatientRefundedEmail tells a patient their payment was refunded.
func BuildPatientRefundedEmail(d CounselingEmailData) Message {
	subject := "Your payment has been refunded"

	textBody := fmt.Sprintf(`Hi %s,

Your payment has been refunded to your account. The counseling session will not take place.

We hope to see you again soon.

Thanks,
The %s Team`,
		d.PatientName, d.appName())

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your payment has been refunded to your account. The counseling session will not take place.</p>
    <p>We hope to see you again soon.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		d.PatientName, d.appName())

	return Message{
		To:       []string{d.PatientEmail},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
