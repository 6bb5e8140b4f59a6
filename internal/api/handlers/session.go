package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/langchou/evrange/internal/estimator"
	"github.com/langchou/evrange/internal/mix"
	"github.com/langchou/evrange/internal/models"
	"github.com/langchou/evrange/pkg/ws"
)

// 估算会话的客户端消息类型
const (
	sessionSetTemperature      = "set_temperature"
	sessionSetAC               = "set_ac"
	sessionSetAdditionalWeight = "set_additional_weight"
	sessionSetAverageSpeed     = "set_average_speed"
	sessionSetDivider          = "set_divider"
	sessionAdjustMix           = "adjust_mix"
	sessionSetMix              = "set_mix"
	sessionDragStart           = "drag_start"
	sessionDragMove            = "drag_move"
	sessionDragEnd             = "drag_end"
	sessionDragCancel          = "drag_cancel"
	sessionSelectVehicle       = "select_vehicle"
	sessionReset               = "reset"
)

// lookupTimeout 会话内切换车型时查询的超时
const lookupTimeout = 5 * time.Second

var errMissingField = errors.New("missing field")

// sessionMessage 客户端消息
type sessionMessage struct {
	Type      string   `json:"type"`
	Value     *float64 `json:"value"`
	On        *bool    `json:"on"`
	Divider   *int     `json:"divider"`
	Segment   string   `json:"segment"`
	City      *float64 `json:"city"`
	State     *float64 `json:"state"`
	National  *float64 `json:"national"`
	X         *float64 `json:"x"`
	Left      float64  `json:"left"`
	Width     float64  `json:"width"`
	VariantID int64    `json:"variant_id"`
}

// vehiclePayload 当前车型
type vehiclePayload struct {
	Variant     *models.Variant `json:"variant"`
	DisplayName string          `json:"display_name"`
}

// HandleEstimatorSession 实时估算会话
// GET /ws/estimator/:id
func (h *Handler) HandleEstimatorSession(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// 升级前查询车型，不存在时仍可返回 404
	variant, profile, err := h.catalog.Profile(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "load variant")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	sess := estimator.NewSession(profile, func(res estimator.Result) {
		client.Send(ws.MsgTypeEstimate, res)
		h.catalog.ObserveSessionResult(res)
	})

	client.OnMessage(func(data []byte) {
		h.handleSessionMessage(client, sess, data)
	})
	client.OnClose(func() {
		sess.Close()
		h.metrics.SessionClosed()
	})

	client.Register()
	h.metrics.SessionOpened()

	client.Send(ws.MsgTypeVehicle, vehiclePayload{Variant: variant, DisplayName: variant.DisplayName()})
	client.Send(ws.MsgTypeEstimate, sess.Result())

	h.logger.Debug("Estimator session started",
		zap.String("client_id", client.ID()),
		zap.Int64("variant_id", id),
	)

	go client.WritePump()
	go client.ReadPump()
}

// handleSessionMessage 处理一条客户端消息，错误以 error 消息返回给客户端
func (h *Handler) handleSessionMessage(client *ws.Client, sess *estimator.Session, data []byte) {
	var msg sessionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		client.SendError(fmt.Errorf("invalid message: %w", err))
		return
	}

	if err := h.applySessionMessage(client, sess, &msg); err != nil {
		h.metrics.ObserveSessionEvent("invalid")
		client.SendError(err)
		return
	}
	h.metrics.ObserveSessionEvent(msg.Type)
}

func (h *Handler) applySessionMessage(client *ws.Client, sess *estimator.Session, msg *sessionMessage) error {
	switch msg.Type {
	case sessionSetTemperature:
		if msg.Value == nil {
			return fmt.Errorf("%s: value: %w", msg.Type, errMissingField)
		}
		sess.SetTemperature(*msg.Value)

	case sessionSetAC:
		if msg.On == nil {
			return fmt.Errorf("%s: on: %w", msg.Type, errMissingField)
		}
		sess.SetACOn(*msg.On)

	case sessionSetAdditionalWeight:
		if msg.Value == nil {
			return fmt.Errorf("%s: value: %w", msg.Type, errMissingField)
		}
		sess.SetAdditionalWeight(*msg.Value)

	case sessionSetAverageSpeed:
		if msg.Value == nil {
			return fmt.Errorf("%s: value: %w", msg.Type, errMissingField)
		}
		sess.SetAverageSpeed(*msg.Value)

	case sessionSetDivider:
		if msg.Divider == nil || msg.Value == nil {
			return fmt.Errorf("%s: divider and value: %w", msg.Type, errMissingField)
		}
		if *msg.Divider != 0 && *msg.Divider != 1 {
			return mix.ErrInvalidDivider
		}
		sess.SetDividerPosition(*msg.Divider, *msg.Value)

	case sessionAdjustMix:
		seg, err := mix.ParseSegment(msg.Segment)
		if err != nil {
			return err
		}
		if msg.Value == nil {
			return fmt.Errorf("%s: value: %w", msg.Type, errMissingField)
		}
		sess.AdjustMixProportionally(seg, *msg.Value)

	case sessionSetMix:
		if msg.City == nil || msg.State == nil || msg.National == nil {
			return fmt.Errorf("%s: city, state and national: %w", msg.Type, errMissingField)
		}
		sess.SetMix(*msg.City, *msg.State, *msg.National)

	case sessionDragStart:
		if msg.Divider == nil {
			return fmt.Errorf("%s: divider: %w", msg.Type, errMissingField)
		}
		return sess.BeginDrag(*msg.Divider)

	case sessionDragMove:
		var percent float64
		switch {
		case msg.X != nil:
			percent = mix.PercentFromPointer(*msg.X, msg.Left, msg.Width)
		case msg.Value != nil:
			percent = *msg.Value
		default:
			return fmt.Errorf("%s: x or value: %w", msg.Type, errMissingField)
		}
		// 未捕获分隔点时忽略
		sess.DragTo(percent)

	case sessionDragEnd:
		sess.EndDrag()

	case sessionDragCancel:
		sess.CancelDrag()

	case sessionSelectVehicle:
		if msg.VariantID <= 0 {
			return fmt.Errorf("%s: variant_id: %w", msg.Type, errMissingField)
		}
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()

		variant, profile, err := h.catalog.Profile(ctx, msg.VariantID)
		if err != nil {
			return fmt.Errorf("select vehicle %d: %w", msg.VariantID, err)
		}
		client.Send(ws.MsgTypeVehicle, vehiclePayload{Variant: variant, DisplayName: variant.DisplayName()})
		sess.SelectVehicle(profile)

	case sessionReset:
		sess.Reset()

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
