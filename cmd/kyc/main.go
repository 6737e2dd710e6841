package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/verity/internal/kyc/app"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "devkeys":
			devKeys(os.Args[2:])
			return
		case "devtoken":
			devToken(os.Args[2:])
			return
		}
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

func devKeys(args []string) {
	fs := flag.NewFlagSet("devkeys", flag.ExitOnError)
	dir := fs.String("dir", ".", "directory to write the key pair into")
	_ = fs.Parse(args)

	files, err := app.GenerateDevKeys(*dir)
	if err != nil {
		log.Fatalf("failed to generate keys: %v", err)
	}
	fmt.Printf("organization key:      %s\n", files.OrgPrivateKey)
	fmt.Printf("KYC_ORG_PUBLIC_KEYS=%s\n", files.OrgJWKS)
	fmt.Printf("KYC_PROVIDER_SIGNING_KEY=%s\n", files.ProviderPrivateKey)
	fmt.Printf("gateway public key:    %s\n", files.ProviderPublicKey)
}

func devToken(args []string) {
	fs := flag.NewFlagSet("devtoken", flag.ExitOnError)
	key := fs.String("key", "dev-signing.pem", "Ed25519 PKCS8 private key")
	org := fs.String("org", "", "organization id")
	sub := fs.String("sub", "dev-operator", "subject")
	scopes := fs.String("scopes", "kyc:admin", "comma separated scopes")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	_ = fs.Parse(args)

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	token, err := app.IssueDevToken(cfg, *key, app.DevTokenRequest{
		Subject: *sub,
		OrgID:   *org,
		Scopes:  strings.Split(*scopes, ","),
		TTL:     *ttl,
	})
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
