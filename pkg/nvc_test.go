package pkg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"nvcoach-backend/models"
)

const validDecompositionJSON = `{
	"observation": "对方在你发消息后的两个小时里没有回复",
	"feeling": "你感到失落，也有些担心",
	"need": "你需要被重视和及时的回应",
	"request": "希望对方看到消息后哪怕简单回复一下",
	"improvements": {"observation": ["去掉\"总是\""]},
	"overall_feedback": "敢于表达已经很棒了",
	"score": 8,
	"standard_response": "我注意到你两个小时没有回我消息。这让我感到失落，因为我需要被重视。希望你看到消息后能简单回复一下。"
}`

func TestParseDecomposition(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		d, err := parseDecomposition(validDecompositionJSON)
		require.NoError(t, err)
		require.Equal(t, 8, d.Score)
		require.Equal(t, "你感到失落，也有些担心", d.Feeling)
		require.Equal(t, []string{`去掉"总是"`}, d.Improvements.Observation)
	})

	t.Run("json code fence", func(t *testing.T) {
		d, err := parseDecomposition("```json\n" + validDecompositionJSON + "\n```")
		require.NoError(t, err)
		require.Equal(t, "你需要被重视和及时的回应", d.Need)
	})

	t.Run("bare code fence", func(t *testing.T) {
		d, err := parseDecomposition("```\n" + validDecompositionJSON + "\n```")
		require.NoError(t, err)
		require.NotEmpty(t, d.StandardResponse)
	})

	t.Run("invalid JSON keeps raw content", func(t *testing.T) {
		raw := "抱歉，我无法返回JSON"
		_, err := parseDecomposition(raw)
		var derr *DecompositionError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, raw, derr.Raw)
	})

	t.Run("missing required field", func(t *testing.T) {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validDecompositionJSON), &m))
		delete(m, "feeling")
		b, _ := json.Marshal(m)

		_, err := parseDecomposition(string(b))
		var derr *DecompositionError
		require.ErrorAs(t, err, &derr)
		require.Contains(t, derr.Reason, "feeling")
	})

	t.Run("score out of range", func(t *testing.T) {
		for _, score := range []string{"0", "11"} {
			bad := strings.Replace(validDecompositionJSON, `"score": 8`, `"score": `+score, 1)
			_, err := parseDecomposition(bad)
			var derr *DecompositionError
			require.ErrorAs(t, err, &derr)
			require.Contains(t, derr.Reason, "score")
		}
	})
}

func newChatStub(t *testing.T, content string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/chat/completions", r.URL.Path)
		resp := ChatCompletionResponse{
			Choices: []ChatChoice{{Message: ResponseMessage{Role: "assistant", Content: content}}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newGateway(srv *httptest.Server) *NVCGateway {
	client := NewChatClient("test-key", WithBaseURL(srv.URL))
	return NewNVCGateway(client, "gpt-4.1", 2000, 800, 0.7)
}

func TestGatewayDecompose(t *testing.T) {
	srv, calls := newChatStub(t, "```json\n"+validDecompositionJSON+"\n```")

	d, err := newGateway(srv).Decompose(context.Background(), "你总是玩手机不回我消息，真的很烦人！")
	require.NoError(t, err)
	require.Equal(t, 8, d.Score)
	require.Equal(t, 1, *calls)
}

func TestGatewayDecomposeEmptyContent(t *testing.T) {
	srv, _ := newChatStub(t, "   ")

	_, err := newGateway(srv).Decompose(context.Background(), "随便说点什么")
	var derr *DecompositionError
	require.ErrorAs(t, err, &derr)
	require.Contains(t, derr.Reason, "empty")
}

func TestGatewayDecomposeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := newGateway(srv).Decompose(context.Background(), "随便说点什么")
	var derr *DecompositionError
	require.ErrorAs(t, err, &derr)
}

func TestGatewayAnswerFollowUp(t *testing.T) {
	srv, _ := newChatStub(t, "  当然可以，先从一句观察开始说起~  ")

	session := &models.ConversionSession{
		OriginalText: "你总是玩手机不回我消息",
		Observation:  "O",
		Feeling:      "F",
		Need:         "N",
		Request:      "R",
		AIFeedback:   datatypes.NewJSONType(models.Feedback{OverallFeedback: "整体不错", Score: 8}),
	}

	answer, err := newGateway(srv).AnswerFollowUp(context.Background(), session, "我该怎么开口？", nil)
	require.NoError(t, err)
	require.Equal(t, "当然可以，先从一句观察开始说起~", answer)
}

func TestGatewayAnswerFollowUpEmpty(t *testing.T) {
	srv, _ := newChatStub(t, "")

	session := &models.ConversionSession{OriginalText: "x", Observation: "O", Feeling: "F", Need: "N", Request: "R"}
	_, err := newGateway(srv).AnswerFollowUp(context.Background(), session, "问题", nil)
	var aerr *AnswerError
	require.ErrorAs(t, err, &aerr)
}

func TestBuildAnswerContext(t *testing.T) {
	session := &models.ConversionSession{
		OriginalText: "原始表达",
		Observation:  "观察内容",
		Feeling:      "感受内容",
		Need:         "需要内容",
		Request:      "请求内容",
		AIFeedback:   datatypes.NewJSONType(models.Feedback{OverallFeedback: "整体反馈", Score: 7}),
	}
	prior := []models.FollowUpExchange{
		{Question: "第一个问题", Answer: "第一个回答"},
		{Question: "第二个问题", Answer: "第二个回答"},
	}

	ctx := buildAnswerContext(session, prior)

	require.Contains(t, ctx, "原始表达")
	require.Contains(t, ctx, "观察：观察内容")
	require.Contains(t, ctx, "AI分析：整体反馈")
	require.Contains(t, ctx, "Q1: 第一个问题")
	require.Contains(t, ctx, "A2: 第二个回答")
	require.Less(t, strings.Index(ctx, "Q1"), strings.Index(ctx, "Q2"))
}

func TestBuildAnswerContextWithoutFeedback(t *testing.T) {
	session := &models.ConversionSession{OriginalText: "x", Observation: "O", Feeling: "F", Need: "N", Request: "R"}
	ctx := buildAnswerContext(session, nil)
	require.NotContains(t, ctx, "AI分析")
	require.NotContains(t, ctx, "之前的问答记录")
}
