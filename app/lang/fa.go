// Package lang holds the user-facing Persian messages. Keeping them in one
// place keeps the API responses consistent with the shipped frontend.
package lang

const (
	NotLoggedIn     = "شما به حساب کاربری خود وارد نشده اید"
	AlreadyLoggedIn = "شما از قبل به حساب کاربری خود وارد شده اید"
	LoggedIn        = "شما به حساب کاربری خود وارد شدید"
	LoggedOut       = "با موفقیت از حساب کاربری خود خارج شدید"
	Registered      = "حساب کاربری شما با موفقیت ثبت گردید"

	FillAllFields    = "لطفا تمام فیلد ها را پر کنید"
	PasswordMismatch = "پسورد ها با یکدیگر تطابق ندارند"
	PasswordTooShort = "تعداد کاراکتر های رمز عبور باید بیشتر از 8 کاراکتر باشد"
	UsernameTaken    = "این نام از قبل وجود دارد"
	WrongPassword    = "رمز عبور شما اشتباه است"
	WrongUsername    = "نام کاربری شما اشتباه است"

	ProfileUpdated      = "اطلاعات کاربر با موفقیت به روز شد"
	ProfileUpdateFailed = "خطا در به روز رسانی اطلاعات کاربر"

	NoPermission         = "شما دسترسی لازم برای انجام این عملیات را ندارید"
	NotConnectedToSchool = "کاربر به مدرسه‌ای متصل نیست"

	SchoolNotFound = "مدرسه مربوطه یافت نشد"
	NoSchools      = "مدرسه ای یافت نشد"

	ProductAdded     = "محصول با موفقیت اضافه شد"
	ProductUpdated   = "محصول با موفقیت به روز شد"
	ProductDeleted   = "محصول با موفقیت حذف شد"
	ProductsDeleted  = "محصولات با موفقیت حذف شدند"
	DuplicateProduct = "محصولی با این نام از قبل وجود دارد"
	ProductNotFound  = "محصول مورد نظر یافت نشد"
	AddProductFailed = "خطا در افزودن محصول"

	EmptyCart         = "سبد خرید خالی است"
	InsufficientStock = "موجودی محصول کافی نیست"
	InsufficientFunds = "موجودی کیف پول شما کافی نیست"
	PriceMismatch     = "قیمت ارسال شده با قیمت محصولات مطابقت ندارد"
	PurchaseSuccess   = "خرید شما با موفقیت ثبت شد"

	OrderNotFound           = "سفارش مورد نظر یافت نشد"
	OrderStatusUpdated      = "وضعیت سفارش به روز شد"
	InvalidStatusTransition = "تغییر وضعیت نامعتبر است"

	DiscountNotFound  = "کد تخفیف یافت نشد"
	DiscountExpired   = "کد تخفیف منقضی شده است"
	DiscountExhausted = "ظرفیت استفاده از این کد تخفیف به پایان رسیده است"
	DiscountMinCart   = "مبلغ سبد خرید برای استفاده از این کد کافی نیست"
	DiscountValid     = "کد تخفیف معتبر است"

	UploadSaved      = "تصویر با موفقیت بارگذاری شد"
	ValidationFailed = "لطفا در درج اطلاعات دقت حاصل نمایید"
	ConnectionError  = "خطا در اتصال"
	ServerError      = "خطای داخلی سرور"
)
