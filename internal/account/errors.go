package account

import "errors"

var (
	ErrAccountExists     = errors.New("account already exists")  // 403 ACCOUNT_IS_EXIST
	ErrNotFound          = errors.New("user not found")          // 404 USER_NOT_FOUND
	ErrAlreadyActive     = errors.New("user is already active")  // 400 USER_IS_ACTIVED
	ErrNotActive         = errors.New("user is not active")      // 403 USER_IS_NOT_ACTIVE
	ErrPasswordIncorrect = errors.New("password incorrect")      // 400 PASSWORD_INCORRECT
)
