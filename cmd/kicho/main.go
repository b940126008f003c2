// kichoサーバーのエントリーポイント。
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hitoshi/kicho/internal/app"
)

func main() {
	// .envがあれば読み込む（ローカル開発用。本番では環境変数を直接設定する）
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "kicho: %v\n", err)
		os.Exit(1)
	}
}
