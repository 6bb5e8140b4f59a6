package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/langchou/evrange/internal/metrics"
	"github.com/langchou/evrange/internal/models"
	"github.com/langchou/evrange/internal/repository"
	"github.com/langchou/evrange/internal/service"
	"github.com/langchou/evrange/pkg/ws"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	store := repository.NewMemoryVariantRepository(
		&models.Variant{
			ID:                       1,
			ManufacturerName:         "Tata",
			ModelName:                "Nexon EV",
			Name:                     "LR",
			RealWorldRangeKm:         models.Float64(350),
			WeightKg:                 models.Float64(1600),
			UsableBatteryCapacityKwh: models.Float64(50),
			FastChargingTimeMin:      models.Float64(30),
		},
		&models.Variant{ID: 2, ManufacturerName: "MG", ModelName: "ZS EV", RealWorldRangeKm: models.Float64(400)},
		&models.Variant{ID: 3, ManufacturerName: "BYD", ModelName: "Atto 3"},
		&models.Variant{ID: 4, ManufacturerName: "Hyundai", ModelName: "Kona", RealWorldRangeKm: models.Float64(300), WeightKg: models.Float64(1500)},
	)

	logger := zap.NewNop()
	hub := ws.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	catalog := service.NewCatalogService(logger, store, m)
	h := NewHandler(logger, catalog, m, hub, "*")

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
	Error string          `json:"error"`
}

func doRequest(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

type estimateData struct {
	EstimatedRangeKm *int `json:"estimated_range_km"`
}

func TestListAndGetVariants(t *testing.T) {
	r := newTestRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/api/variants", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, env.Total)

	w, env = doRequest(t, r, http.MethodGet, "/api/variants/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		DisplayName string `json:"display_name"`
		Estimate    struct {
			EstimatedRangeKm *int `json:"estimated_range_km"`
		} `json:"baseline_estimate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Tata Nexon EV LR", detail.DisplayName)
	require.NotNil(t, detail.Estimate.EstimatedRangeKm)
	assert.Equal(t, 350, *detail.Estimate.EstimatedRangeKm)

	w, _ = doRequest(t, r, http.MethodGet, "/api/variants/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, "/api/variants/99", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetLongDistance(t *testing.T) {
	r := newTestRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/api/variants/1/long-distance", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var m struct {
		OneStopRangeKm float64 `json:"one_stop_range_km"`
		StarRating     float64 `json:"star_rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, 437.5, m.OneStopRangeKm)
	assert.Equal(t, 3.0, m.StarRating)

	w, _ = doRequest(t, r, http.MethodGet, "/api/variants/3/long-distance", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEstimateEndpoint(t *testing.T) {
	r := newTestRouter(t)

	// 空请求体使用基准场景
	w, env := doRequest(t, r, http.MethodPost, "/api/variants/1/estimate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var res estimateData
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotNil(t, res.EstimatedRangeKm)
	assert.Equal(t, 350, *res.EstimatedRangeKm)

	w, env = doRequest(t, r, http.MethodPost, "/api/variants/1/estimate", `{"temperature_c": 5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotNil(t, res.EstimatedRangeKm)
	assert.Less(t, *res.EstimatedRangeKm, 350)

	// 缺少整备质量
	w, env = doRequest(t, r, http.MethodPost, "/api/variants/2/estimate", `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
	res = estimateData{}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Nil(t, res.EstimatedRangeKm)

	w, _ = doRequest(t, r, http.MethodPost, "/api/variants/1/estimate", `{"temperature_c": "cold"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCompareEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, env := doRequest(t, r, http.MethodPost, "/api/compare", `{"variant_ids": [1, 4], "inputs": {"mix": {"city": 1, "state": 1, "national": 2}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.Total)

	w, _ = doRequest(t, r, http.MethodPost, "/api/compare", `{"variant_ids": [1, 2, 3, 4]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodPost, "/api/compare", `{"variant_ids": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doRequest(t, r, http.MethodPost, "/api/compare", `{"variant_ids": [1, 99]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readEstimate(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	msg := readMessage(t, conn)
	require.Equal(t, ws.MsgTypeEstimate, msg.Type)
	var res estimateData
	require.NoError(t, json.Unmarshal(msg.Data, &res))
	require.NotNil(t, res.EstimatedRangeKm)
	return *res.EstimatedRangeKm
}

func TestEstimatorSession(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/estimator/1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, ws.MsgTypeVehicle, readMessage(t, conn).Type)
	assert.Equal(t, 350, readEstimate(t, conn))

	// 关闭空调续航增加
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "set_ac", "on": false}))
	assert.Greater(t, readEstimate(t, conn), 350)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "reset"}))
	assert.Equal(t, 350, readEstimate(t, conn))

	// 拖拽分隔点
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "drag_start", "divider": 0}))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "drag_move", "x": 150, "left": 100, "width": 200}))
	moved := readMessage(t, conn)
	require.Equal(t, ws.MsgTypeEstimate, moved.Type)
	var res struct {
		Inputs struct {
			Mix struct {
				City     int `json:"city"`
				State    int `json:"state"`
				National int `json:"national"`
			} `json:"mix"`
		} `json:"inputs"`
	}
	require.NoError(t, json.Unmarshal(moved.Data, &res))
	assert.Equal(t, 25, res.Inputs.Mix.City)
	assert.Equal(t, 10, res.Inputs.Mix.State)
	assert.Equal(t, 65, res.Inputs.Mix.National)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "drag_end"}))
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "teleport"}))
	assert.Equal(t, ws.MsgTypeError, readMessage(t, conn).Type)

	// 切换车型后输入恢复为基准场景
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": "select_vehicle", "variant_id": 4}))
	assert.Equal(t, ws.MsgTypeVehicle, readMessage(t, conn).Type)
	assert.Equal(t, 300, readEstimate(t, conn))
}

func TestEstimatorSessionNotFound(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/estimator/99"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
