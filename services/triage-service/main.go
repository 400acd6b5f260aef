package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"cyber-incident-desk/pkg/middleware"
	"cyber-incident-desk/pkg/response"
	"cyber-incident-desk/services/triage-service/triage"

	openai "github.com/sashabaranov/go-openai"
)

var classifier *triage.Service

func main() {
	apiKey := os.Getenv("AI_GATEWAY_API_KEY")
	if apiKey == "" {
		log.Fatal("[ERROR] AI_GATEWAY_API_KEY is required")
	}

	baseURL := os.Getenv("AI_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "https://ai.gateway.lovable.dev/v1"
	}

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "google/gemini-3-flash-preview"
	}

	classifier = triage.New(triage.NewGatewayClient(apiKey, baseURL), model)

	middleware.RegisterMetrics()

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.CORSMiddleware(
			middleware.TraceMiddleware(
				middleware.MetricsMiddleware(
					middleware.LoggerMiddleware(h),
				),
			),
		).ServeHTTP
	}

	http.HandleFunc("/functions/triage-incident", wrap(triageHandler))

	http.HandleFunc("/health", healthHandler)
	http.Handle("/metrics", middleware.GetMetricsHandler())

	port := os.Getenv("TRIAGE_PORT")
	if port == "" {
		port = "8085"
	}

	log.Printf("🚀 Triage Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

// triageHandler classifies a draft incident description before submission.
// The endpoint is advisory: the returned values stay within the closed enum
// sets, and gateway throttling surfaces as 429/402 so the form can tell the
// reporter to retry instead of silently losing the suggestion.
func triageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		response.JSON(w, http.StatusMethodNotAllowed, map[string]interface{}{"error": "Method not allowed"})
		return
	}

	var input struct {
		Description string `json:"description"`
		IssueType   string `json:"issueType"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid request payload"})
		return
	}
	if input.Description == "" {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Description is required"})
		return
	}

	result, err := classifier.Classify(r.Context(), input.Description, input.IssueType)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.HTTPStatusCode {
			case http.StatusTooManyRequests:
				response.JSON(w, http.StatusTooManyRequests, map[string]interface{}{"error": "AI rate limit exceeded. Please try again shortly."})
				return
			case http.StatusPaymentRequired:
				response.JSON(w, http.StatusPaymentRequired, map[string]interface{}{"error": "AI service payment required."})
				return
			}
		}
		log.Printf("[ERROR] Triage classification failed: %v", err)
		response.JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "AI gateway error"})
		return
	}

	log.Printf("[OK] Triage suggestion: %s / %s", result.IssueType, result.Priority)
	response.JSON(w, http.StatusOK, result)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "UP",
		"service": "triage-service",
	})
}
