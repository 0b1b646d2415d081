package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"reputation-bot/internal/engine"
)

type scope int

const (
	scopeAny scope = iota
	scopeGroup
	scopeGroupOrAdmin
)

type command struct {
	scope scope
	run   func(b *Bot, m *tgbotapi.Message, args []string)
}

var commands = map[string]command{
	"start":           {scopeAny, (*Bot).cmdStart},
	"whoami":          {scopeAny, (*Bot).cmdWhoAmI},
	"vote":            {scopeGroup, (*Bot).cmdVote},
	"complain":        {scopeGroup, (*Bot).cmdComplain},
	"sellerinfo":      {scopeGroup, (*Bot).cmdSellerInfo},
	"sellers":         {scopeGroup, (*Bot).cmdSellers},
	"top":             {scopeGroup, (*Bot).cmdTop},
	"chatking":        {scopeGroup, (*Bot).cmdChatKing},
	"coinflip":        {scopeGroup, (*Bot).cmdCoinflip},
	"accept_coinflip": {scopeGroup, (*Bot).cmdAcceptCoinflip},
	"points":          {scopeGroup, (*Bot).cmdPoints},
	"poll":            {scopeGroup, (*Bot).cmdPoll},
	"approve":         {scopeGroupOrAdmin, (*Bot).cmdApprove},
	"addseller":       {scopeGroupOrAdmin, (*Bot).cmdAddSeller},
	"removeseller":    {scopeGroupOrAdmin, (*Bot).cmdRemoveSeller},
	"addpoints":       {scopeGroupOrAdmin, (*Bot).cmdAddPoints},
	"setprompt":       {scopeGroupOrAdmin, (*Bot).cmdSetPrompt},
	"setmedia":        {scopeGroupOrAdmin, (*Bot).cmdSetMedia},
}

// Lithuanian names the group already knows.
var commandAliases = map[string]string{
	"startas":        "start",
	"balsuoju":       "vote",
	"nepatiko":       "complain",
	"pardavejoinfo":  "sellerinfo",
	"barygos":        "top",
	"apklausa":       "poll",
	"editpardavejai": "setprompt",
	"addftbaryga":    "setmedia",
}

const (
	textGroupOnly     = "This bot only works in its group!"
	textGroupOrAdmin  = "This command works only in the group or in a private chat with the bot!"
	textAdminOnly     = "Only the admin can use this command!"
	topSellersWeekly  = 3
	topSellersMonthly = 3
	topSellersAllTime = 5
	chatKingSize      = 10
)

func (b *Bot) handleCommand(m *tgbotapi.Message) {
	name := strings.ToLower(m.Command())
	if alias, ok := commandAliases[name]; ok {
		name = alias
	}
	cmd, ok := commands[name]
	if !ok {
		return
	}
	switch cmd.scope {
	case scopeGroup:
		if !b.inGroup(m) {
			b.reply(m, textGroupOnly)
			return
		}
	case scopeGroupOrAdmin:
		if !b.engine.IsAdmin(m.From.ID) {
			if name != "approve" {
				b.reply(m, textAdminOnly)
			}
			return
		}
		if !b.inGroup(m) && !b.inAdminChat(m) {
			b.reply(m, textGroupOrAdmin)
			return
		}
	}
	log.Debug().Str("command", name).Int64("user_id", m.From.ID).Int64("chat_id", m.Chat.ID).Msg("telegram command")
	cmd.run(b, m, strings.Fields(m.CommandArguments()))
}

func (b *Bot) cmdStart(m *tgbotapi.Message, _ []string) {
	switch {
	case b.inGroup(m):
		b.reply(m, "Hi! Use /vote to vote for sellers with buttons, /complain for downvotes (5 pts). "+
			"Chat daily for 1-3 pts + streaks. Check /top, /chatking, /coinflip, or /poll!")
	case b.inAdminChat(m):
		b.reply(m, "Hi, admin! Manage the bot with:\n"+
			"/addseller @VendorTag\n/removeseller @VendorTag\n/approve ComplaintID\n"+
			"/addpoints Amount @User\n/setprompt New text\n/setmedia (reply to a photo, GIF or video)")
	default:
		b.reply(m, textGroupOnly)
	}
}

func (b *Bot) cmdWhoAmI(m *tgbotapi.Message, _ []string) {
	name := "no username"
	if m.From.UserName != "" {
		name = "@" + m.From.UserName
	}
	b.reply(m, fmt.Sprintf("You are: %s (ID: %d)", name, m.From.ID))
}

func (b *Bot) cmdVote(m *tgbotapi.Message, _ []string) {
	sellers := b.engine.Sellers()
	if len(sellers) == 0 {
		b.reply(m, "There are no sellers to vote for yet.")
		return
	}
	b.send(voteMessage(m.Chat.ID, b.engine.Announcement(), sellers))
	log.Info().Int64("user_id", m.From.ID).Int64("chat_id", m.Chat.ID).Msg("vote buttons sent")
}

func (b *Bot) cmdComplain(m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(m, "Usage: /complain @VendorTag Reason")
		return
	}
	c, err := b.engine.FileComplaint(m.From.ID, args[0], strings.Join(args[1:], " "))
	if err != nil {
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Complaint filed! Send your evidence to the admin for complaint #%d. +%d points!", c.ID, engine.ComplaintPoints))
}

func (b *Bot) cmdApprove(m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(m, "Usage: /approve ComplaintID")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		b.reply(m, "Usage: /approve ComplaintID")
		return
	}
	c, err := b.engine.ApproveComplaint(m.From.ID, id)
	if err != nil {
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Complaint approved for %s!", c.Seller))
}

func (b *Bot) cmdAddSeller(m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(m, "Usage: /addseller @VendorTag")
		return
	}
	tag, err := b.engine.AddSeller(m.From.ID, args[0])
	if err != nil {
		if engine.CodeOf(err) == engine.ErrSellerExists.Code {
			b.reply(m, fmt.Sprintf("%s is already on the trusted sellers list!", args[0]))
			return
		}
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Seller %s added! It now shows up in /vote.", tag))
}

func (b *Bot) cmdRemoveSeller(m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(m, "Usage: /removeseller @VendorTag")
		return
	}
	tag, err := b.engine.RemoveSeller(m.From.ID, args[0])
	if err != nil {
		if engine.CodeOf(err) == engine.ErrUnknownSeller.Code {
			b.reply(m, fmt.Sprintf("'%s' is not on the trusted sellers list! List: %s", args[0], strings.Join(b.engine.Sellers(), ", ")))
			return
		}
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Seller %s removed from the list and the boards!", tag))
}

func (b *Bot) cmdSellerInfo(m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.reply(m, "Usage: /sellerinfo @VendorTag")
		return
	}
	info, err := b.engine.SellerInfo(args[0])
	if err != nil {
		if engine.CodeOf(err) == engine.ErrUnknownSeller.Code {
			b.reply(m, fmt.Sprintf("%s is not a trusted seller!", args[0]))
			return
		}
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, renderSellerInfo(info))
}

func (b *Bot) cmdSellers(m *tgbotapi.Message, _ []string) {
	sellers := b.engine.Sellers()
	if len(sellers) == 0 {
		b.reply(m, "No trusted sellers yet.")
		return
	}
	b.reply(m, "Trusted sellers:\n"+strings.Join(sellers, "\n"))
}

func (b *Bot) cmdTop(m *tgbotapi.Message, _ []string) {
	weekly, err1 := b.engine.TopSellers(engine.WindowWeekly, topSellersWeekly)
	monthly, err2 := b.engine.TopSellers(engine.WindowMonthly, topSellersMonthly)
	allTime, err3 := b.engine.TopSellers(engine.WindowAllTime, topSellersAllTime)
	for _, err := range []error{err1, err2, err3} {
		if err != nil {
			b.reply(m, errorText(err))
			return
		}
	}
	b.reply(m, renderSellerBoards(weekly, monthly, allTime))
}

func (b *Bot) cmdChatKing(m *tgbotapi.Message, _ []string) {
	top, err := b.engine.TopChatters(engine.WindowAllTime, chatKingSize)
	if err != nil {
		b.reply(m, errorText(err))
		return
	}
	if len(top) == 0 {
		b.reply(m, "No messages yet!")
		return
	}
	b.reply(m, renderChatters("👑 All-time chat kings 👑", top))
}

func (b *Bot) cmdCoinflip(m *tgbotapi.Message, args []string) {
	if len(args) < 2 {
		b.reply(m, "Usage: /coinflip Amount @Username")
		return
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(m, "Usage: /coinflip Amount @Username")
		return
	}
	c, err := b.engine.ProposeChallenge(m.From.ID, args[1], amount, m.Chat.ID)
	if err != nil {
		if engine.CodeOf(err) == engine.ErrInsufficientPoints.Code {
			b.reply(m, fmt.Sprintf("%s does not have enough points!", args[1]))
			return
		}
		b.reply(m, errorText(err))
		return
	}
	initiator := c.InitiatorHandle
	if initiator == "" {
		initiator = displayName(m.From)
	}
	b.reply(m, fmt.Sprintf("%s challenged %s to a coinflip for %d points! Accept with /accept_coinflip!",
		initiator, userLabel(c.Target, c.TargetHandle), c.Amount))
}

func (b *Bot) cmdAcceptCoinflip(m *tgbotapi.Message, _ []string) {
	res, err := b.engine.AcceptChallenge(m.From.ID, m.Chat.ID)
	if err != nil {
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("🪙 %s won %d points against %s!",
		userLabel(res.Winner, res.WinnerHandle), res.Challenge.Amount, userLabel(res.Loser, res.LoserHandle)))
}

func (b *Bot) cmdAddPoints(m *tgbotapi.Message, args []string) {
	if len(args) < 2 {
		b.reply(m, "Usage: /addpoints Amount @User")
		return
	}
	amount, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(m, "Usage: /addpoints Amount @User")
		return
	}
	target, ok := b.parseUserRef(args[1])
	if !ok {
		b.reply(m, fmt.Sprintf("Unknown user %s.", args[1]))
		return
	}
	bal, err := b.engine.AddPoints(m.From.ID, target, amount)
	if err != nil {
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Added %d points to %s! Now: %d", amount, userLabel(target, b.engine.Handle(target)), bal))
}

func (b *Bot) cmdPoints(m *tgbotapi.Message, _ []string) {
	acct := b.engine.Points(m.From.ID)
	b.reply(m, fmt.Sprintf("Your points: %d\nStreak: %d days", acct.Points, acct.Streak))
}

func (b *Bot) cmdPoll(m *tgbotapi.Message, args []string) {
	p, err := b.engine.StartPoll(m.Chat.ID, m.From.ID, strings.Join(args, " "))
	if err != nil {
		b.reply(m, "Usage: /poll Question")
		return
	}
	msg := tgbotapi.NewMessage(m.Chat.ID, "📊 Poll: "+p.Question)
	msg.ReplyMarkup = pollKeyboard(p)
	b.send(msg)
}

func (b *Bot) cmdSetPrompt(m *tgbotapi.Message, _ []string) {
	a, err := b.engine.SetAnnouncement(m.From.ID, m.CommandArguments())
	if err != nil {
		if engine.CodeOf(err) == engine.ErrEmptyAnnouncement.Code {
			b.reply(m, "Usage: /setprompt New text")
			return
		}
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, fmt.Sprintf("Vote prompt updated: '%s'", a.Text))
}

func (b *Bot) cmdSetMedia(m *tgbotapi.Message, _ []string) {
	id, kind, label := replyMedia(m.ReplyToMessage)
	if id == "" {
		b.reply(m, "Reply to a message with a photo, GIF or video!")
		return
	}
	if _, err := b.engine.SetAnnouncementMedia(m.From.ID, id, kind); err != nil {
		b.reply(m, errorText(err))
		return
	}
	b.reply(m, label+" added to /vote!")
}

func replyMedia(r *tgbotapi.Message) (id, kind, label string) {
	switch {
	case r == nil:
		return "", "", ""
	case len(r.Photo) > 0:
		return r.Photo[len(r.Photo)-1].FileID, mediaPhoto, "Image"
	case r.Animation != nil:
		return r.Animation.FileID, mediaAnimation, "GIF"
	case r.Video != nil:
		return r.Video.FileID, mediaVideo, "Video"
	}
	return "", "", ""
}
