package jetstream

import (
	"strconv"

	"github.com/nats-io/nats.go"
)

// MessageID identifies a delivered message by its stream sequence, e.g. for log lines.
// Messages without JetStream metadata yield an empty id.
func MessageID(msg *nats.Msg) string {
	meta, err := msg.Metadata()
	if err != nil {
		return ""
	}
	return "seq:" + strconv.FormatUint(meta.Sequence.Stream, 10) + "/" + strconv.FormatUint(uint64(meta.NumDelivered), 10)
}
