package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/authz"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/cache"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/logger"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/models"
	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService 认证服务
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	cache     *cache.Store
	now       func() time.Time
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository, store *cache.Store) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
		cache:     store,
		now:       time.Now,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 密码至少 8 位且同时包含字母与数字
func (s *AuthService) ValidatePassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrPasswordWeak
	}
	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if !hasLetter || !hasNumber {
		return ErrPasswordWeak
	}
	return nil
}

// JWTClaims JWT 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	now := s.now()
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		AdminID:      admin.ID,
		Username:     admin.Username,
		TokenVersion: admin.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.AdminID != 0 {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// Login 管理员登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := s.now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	s.storeAuthState(ctx, admin)
	logger.FromContext(ctx).Infow("admin_login_succeeded", "admin_id", admin.ID, "username", admin.Username)
	return admin, token, expiresAt, nil
}

// ChangePassword 修改管理员密码，旧 token 随版本递增失效
func (s *AuthService) ChangePassword(ctx context.Context, adminID uint, oldPassword, newPassword string) error {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrNotFound
	}
	if err := s.VerifyPassword(admin.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	admin.PasswordHash = hashedPassword
	admin.TokenVersion++
	if err := s.adminRepo.Update(admin); err != nil {
		return err
	}
	s.storeAuthState(ctx, admin)
	return nil
}

// ResolveAdmin 校验 token 版本并返回鉴权快照，缓存未命中时回源数据库
func (s *AuthService) ResolveAdmin(ctx context.Context, claims *JWTClaims) (*cache.AdminAuthState, error) {
	if claims == nil || claims.AdminID == 0 {
		return nil, ErrTokenInvalid
	}
	state, hit, err := s.cache.GetAdminAuthState(ctx, claims.AdminID)
	if err != nil {
		logger.FromContext(ctx).Warnw("admin_auth_state_cache_get_failed", "admin_id", claims.AdminID, "error", err)
	}
	if !hit || state == nil {
		admin, err := s.adminRepo.GetByID(claims.AdminID)
		if err != nil {
			return nil, err
		}
		if admin == nil {
			return nil, ErrTokenInvalid
		}
		state = cache.BuildAdminAuthState(admin)
		s.storeAuthState(ctx, admin)
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenInvalid
	}
	return state, nil
}

// EnsureAdmin 确保管理员账号存在，已存在时不覆盖密码
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, role string, isSuper bool) (*models.Admin, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, false, ErrInvalidCredentials
	}
	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	role = strings.TrimSpace(role)
	if role != "" && !authz.IsBuiltinRole(role) {
		return nil, false, ErrRoleInvalid
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, false, err
	}
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, false, err
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		IsSuper:      isSuper,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, false, err
	}
	logger.FromContext(ctx).Infow("admin_bootstrapped", "admin_id", admin.ID, "username", admin.Username, "role", admin.Role)
	return admin, true, nil
}

// ShopperClaims 托管认证后台签发的顾客 token
type ShopperClaims struct {
	jwt.RegisteredClaims
}

// ParseShopperToken 解析顾客 token 并返回 sub
func (s *AuthService) ParseShopperToken(tokenString string) (string, error) {
	secret := strings.TrimSpace(s.cfg.ShopperJWT.SecretKey)
	if secret == "" {
		return "", ErrTokenInvalid
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &ShopperClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", ErrTokenInvalid
	}
	claims, ok := token.Claims.(*ShopperClaims)
	if !ok || !token.Valid {
		return "", ErrTokenInvalid
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", ErrTokenInvalid
	}
	return subject, nil
}

func (s *AuthService) storeAuthState(ctx context.Context, admin *models.Admin) {
	if err := s.cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin)); err != nil {
		logger.FromContext(ctx).Warnw("admin_auth_state_cache_set_failed", "admin_id", admin.ID, "error", err)
	}
}
