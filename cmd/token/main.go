// Command token issues access tokens for the API. Account management lives
// outside this service; operators mint tokens for each department desk.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/khoa-hris/chamcong-backend-go/internal/config"
	"github.com/khoa-hris/chamcong-backend-go/internal/domain/user"
	"github.com/khoa-hris/chamcong-backend-go/internal/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "user id recorded as submitter/reviewer")
	role := flag.String("role", string(user.RoleDepartment), "KHOA, GIAMDOC or ADMIN")
	department := flag.String("dept", "", "department, required for KHOA")
	ttl := flag.Duration("ttl", 0, "token lifetime (default JWT_ACCESS_EXPIRATION_TIME)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	p := user.Principal{UserID: *userID, Role: user.Role(*role), Department: *department}

	accessTTL := cfg.JWT.AccessExpiration
	if *ttl > 0 {
		accessTTL = *ttl
	}
	svc := jwt.NewJWTService(cfg.JWT.Secret, accessTTL, cfg.JWT.SSEExpiration)

	token, exp, err := svc.GenerateAccessToken(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		flag.Usage()
		os.Exit(2)
	}

	fmt.Fprintf(os.Stderr, "expires %s\n", time.Unix(exp, 0).Format(time.RFC3339))
	fmt.Println(token)
}
