package offline

import (
	"encoding/json"
	"fmt"

	"github.com/emberapps/outreach/internal/outreach"
)

// SendBatchPayload stores the data for a queued batch send.
type SendBatchPayload struct {
	BatchID string   `json:"batch_id"`
	LeadIDs []string `json:"lead_ids,omitempty"`
}

// SendReplyPayload stores the data for a queued conversation reply.
type SendReplyPayload struct {
	EmailID            string            `json:"email_id"`
	Provider           outreach.Provider `json:"provider"`
	Instructions       string            `json:"instructions"`
	RecipientFirstName string            `json:"recipient_first_name,omitempty"`
	SenderName         string            `json:"sender_name,omitempty"`
	SenderCompany      string            `json:"sender_company,omitempty"`
}

// CheckRepliesPayload stores the data for a queued reply-detection sweep.
type CheckRepliesPayload struct {
	Provider outreach.Provider `json:"provider,omitempty"`
}

// MarshalPayload serializes a payload struct to JSON for queue storage.
func MarshalPayload(payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	return string(data), nil
}

// UnmarshalPayload deserializes a JSON payload string back into the
// appropriate type based on the operation type.
func UnmarshalPayload(opType OperationType, jsonStr string) (any, error) {
	switch opType {
	case OpSendBatch:
		var p SendBatchPayload
		if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
			return nil, fmt.Errorf("unmarshal send_batch: %w", err)
		}
		return &p, nil

	case OpSendReply:
		var p SendReplyPayload
		if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
			return nil, fmt.Errorf("unmarshal send_reply: %w", err)
		}
		return &p, nil

	case OpCheckReplies:
		var p CheckRepliesPayload
		if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
			return nil, fmt.Errorf("unmarshal check_replies: %w", err)
		}
		return &p, nil

	default:
		return nil, fmt.Errorf("unknown operation type: %s", opType)
	}
}
