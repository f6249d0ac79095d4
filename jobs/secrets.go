package jobs

import (
	"fmt"
	"os"

	"github.com/AdamDubois/home-serveur/lib"

	"golang.org/x/crypto/bcrypt"
)

var _ = lib.RegisterJob("secrets", func(c *lib.Ctx, args lib.J) {
	for _, v := range os.Environ() {
		fmt.Println(v)
	}
})

var _ = lib.RegisterJob("secrets-encrypt", func(c *lib.Ctx, args lib.J) {
	fmt.Println("$e1$" + lib.SecretsEncrypt(os.Getenv("SECRET"), os.Args[2]))
})

// hash-password is the one-off setup command from the README, it prints the
// bcrypt hash to put in MONETARIAT_PASSWORD_HASH
var _ = lib.RegisterJob("hash-password", func(c *lib.Ctx, args lib.J) {
	password := args.Get("arg")
	if password == "" {
		fmt.Println("usage: home-serveur hash-password <password>")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	lib.Check(err)
	fmt.Printf("\nMONETARIAT_PASSWORD_HASH='%s'\n\n", string(hash))
})
