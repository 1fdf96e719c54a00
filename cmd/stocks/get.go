package testkit

import (
	"context"
	"fmt"

	"github.com/alexflint/go-arg"
	"github.com/videoplugins/testkit/lib"
)

func init() {
	lib.Commands["stocks-get"] = stocksGet
	lib.Args["stocks-get"] = stocksGetArgs{}
}

type stocksGetArgs struct {
	StockID string `arg:"positional,required"`
	Url     string `arg:"-u,--url,required" help:"base url of the stock api"`
}

func (stocksGetArgs) Description() string {
	return "\nfetch stock data and print the response envelope\n"
}

func stocksGet() {
	var args stocksGetArgs
	arg.MustParse(&args)
	ctx := context.Background()
	api := &lib.HTTPStockAPI{Url: args.Url}
	resp, err := lib.HandleStockRequest(ctx, api, args.StockID)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(lib.Pformat(resp))
}
