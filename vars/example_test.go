package vars_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/vaultexec/vars"
)

func ExampleStore_InsertVars() {
	store := vars.NewStore(nil, vars.WithEnviron(vars.Environ{
		{Name: "HOME", Value: "/home/ci"},
		{Name: "DB", Value: `const:js:{"user": "app", "port": 5432}`},
	}))

	defs := []string{"GREETING=const:str:hello", "HOME"}
	if err := store.InsertVars(context.Background(), defs, vars.ImportOnlyEx); err != nil {
		fmt.Println("error:", err)
		return
	}

	for _, kv := range store.Environ() {
		fmt.Println(kv)
	}
	// Output:
	// DB_PORT=5432
	// DB_USER=app
	// GREETING=hello
	// HOME=/home/ci
}
