package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wrxx97/chat/pkg/database"
)

// notifyTriggerSQL makes postgres emit chat_updated on every chats row change
// and chat_message_created, with the chat fields merged in, on every new message.
var notifyTriggerSQL = []string{
	`CREATE OR REPLACE FUNCTION notify_chat_updated() RETURNS TRIGGER AS $$
BEGIN
	PERFORM pg_notify('chat_updated', json_build_object(
		'op', TG_OP,
		'old', CASE WHEN TG_OP = 'INSERT' THEN NULL ELSE to_jsonb(OLD) END,
		'new', CASE WHEN TG_OP = 'DELETE' THEN NULL ELSE to_jsonb(NEW) END
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS chat_updated_trigger ON chats`,
	`CREATE TRIGGER chat_updated_trigger
	AFTER INSERT OR UPDATE OR DELETE ON chats
	FOR EACH ROW EXECUTE FUNCTION notify_chat_updated()`,
	`CREATE OR REPLACE FUNCTION notify_chat_message_created() RETURNS TRIGGER AS $$
DECLARE
	c chats%ROWTYPE;
BEGIN
	SELECT * INTO c FROM chats WHERE id = NEW.chat_id;
	PERFORM pg_notify('chat_message_created', (to_jsonb(NEW) || jsonb_build_object(
		'ws_id', c.ws_id,
		'name', c.name,
		'type', c.type,
		'members', c.members
	))::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS chat_message_created_trigger ON messages`,
	`CREATE TRIGGER chat_message_created_trigger
	AFTER INSERT ON messages
	FOR EACH ROW EXECUTE FUNCTION notify_chat_message_created()`,
}

// InstallNotifyTriggers creates the change notification triggers. It is a
// no-op on databases other than postgres.
func InstallNotifyTriggers(db *gorm.DB) error {
	if db.Dialector.Name() != database.DriverPostgres {
		return nil
	}
	for _, stmt := range notifyTriggerSQL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install notify triggers: %w", err)
		}
	}
	return nil
}
