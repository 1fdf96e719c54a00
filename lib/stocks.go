package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// StockAPI is the retrieval port behind the stock request handler.
type StockAPI interface {
	RetrieveStock(ctx context.Context, stockID string) (string, error)
}

// HTTPStockAPI retrieves stock data from an HTTP endpoint, one GET per id.
type HTTPStockAPI struct {
	Url    string
	Client *http.Client
}

func (a *HTTPStockAPI) RetrieveStock(ctx context.Context, stockID string) (string, error) {
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	url := strings.TrimRight(a.Url, "/") + "/" + stockID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		Logger.Println("error:", err)
		return "", err
	}
	if resp.StatusCode != 200 {
		err := fmt.Errorf("stock api status %d for id: %s", resp.StatusCode, stockID)
		Logger.Println("error:", err)
		return "", err
	}
	return string(data), nil
}

// HandleStockRequest retrieves a stock value and wraps it in an api gateway
// envelope. Every path returns a defined envelope: success is 200 with the
// value under "message", a failed retrieval is 502 with the error under
// "error". The error is never swallowed into an unset response.
func HandleStockRequest(ctx context.Context, api StockAPI, stockID string) (events.APIGatewayProxyResponse, error) {
	value, err := api.RetrieveStock(ctx, stockID)
	if err != nil {
		Logger.Println("error:", err)
		body, err := json.Marshal(map[string]string{"error": err.Error()})
		if err != nil {
			Logger.Println("error:", err)
			return events.APIGatewayProxyResponse{}, err
		}
		return events.APIGatewayProxyResponse{StatusCode: 502, Body: string(body)}, nil
	}
	Logger.Println("stock data:", value)
	body, err := json.Marshal(map[string]string{"message": value})
	if err != nil {
		Logger.Println("error:", err)
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: 200, Body: string(body)}, nil
}
