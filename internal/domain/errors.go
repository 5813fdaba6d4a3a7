package domain

import "errors"

// Named error kinds returned by the service layer. Callers branch with
// errors.Is and surface the message to the end user as-is.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotLoggedIn        = errors.New("no user is logged in")
	ErrInvalidCredentials = errors.New("numéro ou mot de passe incorrect")
	ErrPhoneTaken         = errors.New("ce numéro est déjà utilisé")
	ErrNotGroup           = errors.New("chat is not a group")
	ErrNotAdmin           = errors.New("seuls les administrateurs peuvent effectuer cette action")
	ErrCreatorProtected   = errors.New("impossible de retirer ou rétrograder le créateur du groupe")
	ErrNotMember          = errors.New("membre non trouvé")
	ErrAlreadyMember      = errors.New("utilisateur déjà membre du groupe")
	ErrAlreadyAdmin       = errors.New("utilisateur déjà administrateur")
	ErrNotBroadcastOwner  = errors.New("seul le créateur peut envoyer sur cette liste de diffusion")
	ErrNotSender          = errors.New("seul l'expéditeur peut modifier ce message")
	ErrBlocked            = errors.New("contact bloqué")
)
