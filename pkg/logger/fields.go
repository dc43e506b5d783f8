package logger

const (
	FieldComponent     = "component"
	FieldSession       = "session"
	FieldChannel       = "channel"
	FieldChannelID     = "channel_id"
	FieldChatID        = "chat_id"
	FieldMessageID     = "message_id"
	FieldInteractionID = "interaction_id"
	FieldUserID        = "user_id"
	FieldCustomID      = "custom_id"
	FieldError         = "error"
)
